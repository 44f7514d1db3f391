package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sitekit/internal/carousel"
	"sitekit/internal/terminal"
	"sitekit/pkg/dom"
	"sitekit/pkg/timer"
)

// carousel: rotate text slides in the terminal and print each transition.
func carouselCmd(rt *runtime) *cobra.Command {
	var (
		slides   []string
		interval time.Duration
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "carousel",
		Short: "Run the carousel rotation over text slides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(slides) == 0 {
				return fmt.Errorf("at least one slide is required")
			}
			site, err := rt.bindings()
			if err != nil {
				return err
			}
			if interval <= 0 && site.Carousel != nil {
				interval = site.Carousel.Interval
			}

			sink, closeSink, err := rt.telemetrySink()
			if err != nil {
				return err
			}
			defer closeSink()

			out := cmd.OutOrStdout()
			els := make([]dom.Element, len(slides))
			for i, text := range slides {
				el := terminal.NewElement(fmt.Sprintf("slide-%d", i), out)
				text := strings.TrimSpace(text)
				el.OnClassChange(func(class string, on bool) {
					if class == carousel.ClassActive && on {
						fmt.Fprintf(out, "[%s] %s\n", time.Now().Format(time.TimeOnly), text)
					}
				})
				els[i] = el
			}

			c, err := carousel.New(carousel.Config{
				Slides:   els,
				Interval: interval,
				Name:     "terminal_carousel",
			}, timer.NewReal(), sink, rt.cfg.Log)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := signalContext(context.Background())
			defer cancel()
			if duration > 0 {
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			c.Start()
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&slides, "slides", []string{"Residential Moving", "Office & Commercial Moving", "Long Distance Moving"}, "slide texts")
	cmd.Flags().DurationVar(&interval, "interval", 0, "rotation interval (defaults to the bindings value)")
	cmd.Flags().DurationVar(&duration, "for", 0, "stop after this long (0 runs until interrupted)")
	return cmd
}
