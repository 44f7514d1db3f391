package terminal

import (
	"context"
	"errors"

	"sitekit/internal/forms"
	"sitekit/pkg/dom"
)

// NewAlerter shows a blocking message and waits for the user to acknowledge.
func NewAlerter(driver PromptDriver) forms.Alerter {
	return forms.AlerterFunc(func(ctx context.Context, msg string) error {
		if err := driver.Info(ctx, msg); err != nil {
			return err
		}
		_, err := driver.Confirm(ctx, ConfirmConfig{Message: "OK", Default: true})
		return err
	})
}

// Submitter is the part of a form controller a session drives.
type Submitter interface {
	Submit(ctx context.Context, ev *dom.Event) forms.Outcome
	Schema() forms.Schema
}

// Run fills the form and submits it, asking again while the input fails
// validation. It stops after maxAttempts invalid attempts.
func Run(ctx context.Context, driver PromptDriver, form *Form, ctrl Submitter, maxAttempts int) (forms.Outcome, error) {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var outcome forms.Outcome
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := form.Fill(ctx, ctrl.Schema().Fields); err != nil {
			return 0, err
		}
		outcome = ctrl.Submit(ctx, dom.NewEvent(dom.EventSubmit))
		if outcome != forms.OutcomeInvalid {
			return outcome, nil
		}
		if attempt < maxAttempts {
			again, err := driver.Confirm(ctx, ConfirmConfig{Message: "Fix the form and try again?", Default: true})
			if err != nil {
				return outcome, err
			}
			if !again {
				break
			}
		}
	}
	return outcome, errors.New("terminal: form was not completed")
}
