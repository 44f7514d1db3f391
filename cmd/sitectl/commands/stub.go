package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sitekit/internal/contract"
	"sitekit/internal/stubapi"
	"sitekit/pkg/app"
	"sitekit/pkg/config"
)

// stub: serve the in-memory submission API behind the full middleware stack.
func stubCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve an in-memory stand-in for the booking and contact endpoints",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
				rt.cfg.Port = f.Value.String()
				return rt.cfg.Validate()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contract.Load()
			if err != nil {
				return fmt.Errorf("load contract: %w", err)
			}
			h, err := stubapi.NewHandler(stubapi.NewMemoryStore(), c, rt.cfg.Log)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(context.Background())
			defer cancel()
			return app.NewApplication(rt.cfg, h).Run(ctx)
		},
	}
	cmd.Flags().String("port", config.DefaultPort, "listen port ("+config.EnvPort+")")
	return cmd
}
