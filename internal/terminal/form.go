package terminal

import (
	"context"
	"fmt"
	"sync"

	"sitekit/internal/forms"
	"sitekit/pkg/dom"
)

// Form is a dom.Form whose values are collected through a PromptDriver.
type Form struct {
	events

	driver PromptDriver

	mu     sync.Mutex
	values map[string]string
}

func NewForm(driver PromptDriver) *Form {
	return &Form{driver: driver, values: make(map[string]string)}
}

func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[string]string)
}

// Fill prompts for every field in order. Current values are offered as
// defaults, so a rejected attempt can be corrected without retyping.
func (f *Form) Fill(ctx context.Context, fields []forms.Field) error {
	for _, field := range fields {
		value, err := f.prompt(ctx, field)
		if err != nil {
			return fmt.Errorf("%s: %w", field.Name, err)
		}
		f.mu.Lock()
		f.values[field.Name] = value
		f.mu.Unlock()
	}
	return nil
}

func (f *Form) prompt(ctx context.Context, field forms.Field) (string, error) {
	current := f.Value(field.Name)

	switch field.Kind {
	case forms.KindSelect:
		labels := make([]string, len(field.Options))
		def := -1
		for i, opt := range field.Options {
			labels[i] = opt.Label
			if opt.Value == current {
				def = i
			}
		}
		idx, err := f.driver.Select(ctx, SelectConfig{Message: field.Label, Options: labels, DefaultIndex: def})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil

	case forms.KindTextArea:
		return f.driver.TextArea(ctx, InputConfig{Message: field.Label, Default: current})

	default:
		return f.driver.Input(ctx, InputConfig{Message: field.Label, Default: current, Help: kindHelp(field.Kind)})
	}
}

func kindHelp(kind forms.FieldKind) string {
	switch kind {
	case forms.KindEmail:
		return "name@example.com"
	case forms.KindDate:
		return "YYYY-MM-DD"
	case forms.KindTime:
		return "HH:MM"
	default:
		return ""
	}
}

// Submit dispatches a submit event to the form's handlers and returns it.
func (f *Form) Submit() *dom.Event {
	ev := dom.NewEvent(dom.EventSubmit)
	f.dispatch(ev)
	return ev
}
