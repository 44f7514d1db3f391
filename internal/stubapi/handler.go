// Package stubapi serves an in-memory stand-in for the site's submission
// endpoints, answering with the same bodies and statuses the production
// backend does.
package stubapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"sitekit/internal/contract"
	apperrors "sitekit/pkg/errors"
	httputil "sitekit/pkg/http"
	"sitekit/pkg/logger"
	"sitekit/pkg/model"
	"sitekit/pkg/validation"
)

const (
	PathBookings = "/api/bookings"
	PathContact  = "/api/contact"
	PathServices = "/api/services"
	PathHealth   = "/health"
	PathOpenAPI  = "/openapi.yaml"

	BookingAccepted = "Move request submitted successfully! We will contact you within 24 hours."
	BookingFailed   = "Failed to process move request"
	ContactAccepted = "Thank you for your message! We will get back to you within 24 hours."
	ContactFailed   = "Failed to submit message. Please try again."
	InvalidService  = "Please select a valid service"
	InvalidBody     = "Invalid request body"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	store    Store
	contract *contract.Contract
	validate *validator.Validate
	log      *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewHandler builds the stub endpoints over store. When c is non-nil every
// accepted request body is also checked against the published contract.
func NewHandler(store Store, c *contract.Contract, log *logger.Logger) (*Handler, error) {
	if store == nil {
		return nil, fmt.Errorf("stubapi: store is required")
	}
	v, err := validation.New()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		store:    store,
		contract: c,
		validate: v,
		log:      log.Component("stubapi"),
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.POST(PathBookings, h.CreateBooking)
	router.POST(PathContact, h.SubmitContact)
	router.GET(PathServices, h.ListServices)
	router.GET(PathOpenAPI, h.OpenAPI)
}

// RegisterHealthRoutes is separate so the probe can skip rate limiting.
func (h *Handler) RegisterHealthRoutes(router *httprouter.Router) {
	router.GET(PathHealth, h.Health)
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := h.decode(r, PathBookings, &req); err != nil {
		h.writeError(w, "CreateBooking", err)
		return
	}

	service, ok := model.ServiceByID(req.ServiceID)
	if !ok {
		h.writeError(w, "CreateBooking", apperrors.InvalidInput(InvalidService))
		return
	}

	booking := Booking{
		ID:        h.newID(),
		Request:   req,
		Service:   service,
		Status:    BookingStatusPending,
		CreatedAt: h.now(),
	}
	if err := h.store.SaveBooking(r.Context(), booking); err != nil {
		h.log.Error("Failed to save booking", "error", err)
		h.writeError(w, "CreateBooking", apperrors.Internal(BookingFailed, err))
		return
	}

	h.log.Info("Booking received", "booking_id", booking.ID, "service", service.Name)
	if err := httputil.WriteCreated(w, model.SubmissionResponse{
		Message:   BookingAccepted,
		BookingID: booking.ID,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateBooking", "operation", "WriteCreated", "error", err)
	}
}

func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ContactRequest
	if err := h.decode(r, PathContact, &req); err != nil {
		h.writeError(w, "SubmitContact", err)
		return
	}

	msg := ContactMessage{
		ID:        h.newID(),
		Request:   req,
		Status:    MessageStatusNew,
		CreatedAt: h.now(),
	}
	if err := h.store.SaveMessage(r.Context(), msg); err != nil {
		h.log.Error("Failed to save contact message", "error", err)
		h.writeError(w, "SubmitContact", apperrors.Internal(ContactFailed, err))
		return
	}

	h.log.Info("Contact message received", "message_id", msg.ID)
	if err := httputil.WriteCreated(w, model.SubmissionResponse{Message: ContactAccepted}); err != nil {
		h.log.Error("failed to write created response", "handler", "SubmitContact", "operation", "WriteCreated", "error", err)
	}
}

func (h *Handler) ListServices(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, model.Services()); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListServices", "operation", "WriteSuccess", "error", err)
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) OpenAPI(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(contract.Raw()); err != nil {
		h.log.Error("failed to write contract", "handler", "OpenAPI", "error", err)
	}
}

// decode reads and validates a request body into dst. Failures come back as
// AppErrors carrying the message the form shows.
func (h *Handler) decode(r *http.Request, path string, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.PayloadTooLarge(tooLarge.Limit)
		}
		return apperrors.InvalidInput(InvalidBody)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.InvalidInput(InvalidBody)
	}

	if err := h.validate.Struct(dst); err != nil {
		field, tag, ok := validation.FirstError(err)
		if !ok {
			return apperrors.Internal("Internal server error", err)
		}
		if tag == validation.TagSiteEmail {
			return apperrors.InvalidEmail()
		}
		return apperrors.MissingField(field)
	}

	if h.contract != nil {
		if err := h.contract.ValidateRequest(path, body); err != nil {
			h.log.Warn("Request does not match contract", "path", path, "error", err)
			return apperrors.InvalidInput(InvalidBody)
		}
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
