package model

type BookingRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,site_email"`
	Phone       string `json:"phone" validate:"required"`
	ServiceID   int    `json:"service_id" validate:"required,gt=0"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Address     string `json:"address" validate:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,site_email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// SubmissionResponse is the body the site endpoints answer with. Message is
// set on success, Error on rejection.
type SubmissionResponse struct {
	Message   string `json:"message,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	Error     string `json:"error,omitempty"`
}
