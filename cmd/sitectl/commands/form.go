package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitekit/internal/forms"
	"sitekit/internal/terminal"
	"sitekit/pkg/client"
)

// book / contact: prompt for the form's fields and submit them through the
// same controller the page uses.
func formCmd(rt *runtime, use, form, short string) *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := rt.bindings()
			if err != nil {
				return err
			}
			fb, ok := site.Form(form)
			if !ok {
				return fmt.Errorf("bindings have no %q form", form)
			}
			schema, err := forms.SchemaByName(form)
			if err != nil {
				return err
			}
			schema.Endpoint = fb.Endpoint

			sink, closeSink, err := rt.telemetrySink()
			if err != nil {
				return err
			}
			defer closeSink()

			out := cmd.OutOrStdout()
			driver := terminal.NewSurveyDriver(out)
			tf := terminal.NewForm(driver)

			notifier, err := forms.NewNotifier(fb.Feedback,
				terminal.NewElement("message", out), nil,
				terminal.NewAlerter(driver), rt.cfg.Log)
			if err != nil {
				return err
			}

			ctrl, err := forms.NewController(forms.Config{
				Form:      tf,
				Submit:    terminal.NewElement("submit", nil),
				Telemetry: sink,
			}, schema, client.NewHttpClient(rt.cfg.SiteBaseURL, rt.cfg.HTTPClientTimeout, rt.cfg.Log), notifier, rt.cfg.Log)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			ctx, cancel := signalContext(context.Background())
			defer cancel()

			outcome, err := terminal.Run(ctx, driver, tf, ctrl, attempts)
			if err != nil {
				return err
			}
			if outcome != forms.OutcomeSucceeded {
				fmt.Fprintf(os.Stderr, "%s form %s\n", form, outcome)
				return fmt.Errorf("submission %s", outcome)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", 3, "how many times to re-prompt after a validation error")
	return cmd
}
