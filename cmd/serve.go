package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the retention sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			a.Start()
			errCh := make(chan error, 1)
			go func() { errCh <- a.Run() }()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				a.Log.Info("Shutting down")
				return nil
			}
		})
	},
}
