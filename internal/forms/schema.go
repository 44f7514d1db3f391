package forms

import (
	"fmt"
	"strconv"

	"sitekit/pkg/model"
	"sitekit/pkg/sanitizer"
	"sitekit/pkg/validation"
)

const (
	BookingEndpoint = "/api/bookings"
	ContactEndpoint = "/api/contact"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindPhone
	KindSelect
	KindDate
	KindTime
	KindTextArea
)

type Option struct {
	Value string
	Label string
}

// Field describes one form input. Rules is a validator tag list; an empty
// Rules marks the field optional. Messages maps a failing rule to the text
// shown to the user, with "required" as the fallback.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Rules    string
	Messages map[string]string
	Options  []Option
}

func (f Field) message(tag string) string {
	if msg, ok := f.Messages[tag]; ok {
		return msg
	}
	if msg, ok := f.Messages["required"]; ok {
		return msg
	}
	return fmt.Sprintf("Please fill in %s", f.Label)
}

func (f Field) normalize(raw string) string {
	switch f.Kind {
	case KindTextArea:
		return sanitizer.NormalizeMultiline(raw)
	case KindEmail:
		return sanitizer.NormalizeEmail(raw)
	default:
		return sanitizer.TrimAndNormalize(raw)
	}
}

// Schema is the field list, endpoint and serializer of one form.
type Schema struct {
	Name           string
	Endpoint       string
	Fields         []Field
	SuccessMessage string
	Build          func(values map[string]string) (any, error)
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func serviceOptions() []Option {
	services := model.Services()
	out := make([]Option, 0, len(services))
	for _, svc := range services {
		out = append(out, Option{Value: strconv.Itoa(svc.ID), Label: svc.Name})
	}
	return out
}

func BookingSchema() Schema {
	return Schema{
		Name:           "booking",
		Endpoint:       BookingEndpoint,
		SuccessMessage: "Thank you! Your booking request has been submitted. We will contact you within 24 hours.",
		Fields: []Field{
			{Name: "name", Label: "Full name", Kind: KindText, Rules: "required",
				Messages: map[string]string{"required": "Please enter your name"}},
			{Name: "email", Label: "Email", Kind: KindEmail, Rules: "required," + validation.TagSiteEmail,
				Messages: map[string]string{
					"required":              "Please enter your email address",
					validation.TagSiteEmail: "Please enter a valid email address",
				}},
			{Name: "phone", Label: "Phone", Kind: KindPhone, Rules: "required",
				Messages: map[string]string{"required": "Please enter your phone number"}},
			{Name: "service_id", Label: "Service", Kind: KindSelect, Rules: "required,number",
				Options: serviceOptions(),
				Messages: map[string]string{
					"required": "Please select a service",
					"number":   "Please select a valid service",
				}},
			{Name: "description", Label: "Project description", Kind: KindTextArea, Rules: "required",
				Messages: map[string]string{"required": "Please describe your project"}},
			{Name: "date", Label: "Preferred date", Kind: KindDate, Rules: "required",
				Messages: map[string]string{"required": "Please select a preferred date"}},
			{Name: "time", Label: "Preferred time", Kind: KindTime, Rules: "required",
				Messages: map[string]string{"required": "Please select a preferred time"}},
			{Name: "address", Label: "Address", Kind: KindText, Rules: "required",
				Messages: map[string]string{"required": "Please enter the project address"}},
		},
		Build: buildBooking,
	}
}

func buildBooking(v map[string]string) (any, error) {
	serviceID, err := strconv.Atoi(v["service_id"])
	if err != nil || serviceID <= 0 {
		return nil, &FieldError{Field: "service_id", Message: "Please select a valid service"}
	}
	return &model.BookingRequest{
		Name:        v["name"],
		Email:       v["email"],
		Phone:       v["phone"],
		ServiceID:   serviceID,
		Description: v["description"],
		Date:        v["date"],
		Time:        v["time"],
		Address:     v["address"],
	}, nil
}

func ContactSchema() Schema {
	return Schema{
		Name:           "contact",
		Endpoint:       ContactEndpoint,
		SuccessMessage: "Thank you for your message! We will get back to you within 24 hours.",
		Fields: []Field{
			{Name: "name", Label: "Name", Kind: KindText, Rules: "required",
				Messages: map[string]string{"required": "Please enter your name"}},
			{Name: "email", Label: "Email", Kind: KindEmail, Rules: "required," + validation.TagSiteEmail,
				Messages: map[string]string{
					"required":              "Please enter your email address",
					validation.TagSiteEmail: "Please enter a valid email address",
				}},
			{Name: "phone", Label: "Phone (optional)", Kind: KindPhone},
			{Name: "subject", Label: "Subject", Kind: KindText, Rules: "required",
				Messages: map[string]string{"required": "Please enter a subject"}},
			{Name: "message", Label: "Message", Kind: KindTextArea, Rules: "required",
				Messages: map[string]string{"required": "Please enter your message"}},
		},
		Build: buildContact,
	}
}

func buildContact(v map[string]string) (any, error) {
	return &model.ContactRequest{
		Name:    v["name"],
		Email:   v["email"],
		Phone:   v["phone"],
		Subject: v["subject"],
		Message: v["message"],
	}, nil
}

// SchemaByName returns the built-in schema for "booking" or "contact".
func SchemaByName(name string) (Schema, error) {
	switch name {
	case "booking":
		return BookingSchema(), nil
	case "contact":
		return ContactSchema(), nil
	default:
		return Schema{}, fmt.Errorf("unknown form %q", name)
	}
}
