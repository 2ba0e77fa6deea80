package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/app"
)

var (
	skipMigrate bool

	rootCmd = &cobra.Command{
		Use:           "edu-platforma",
		Short:         "Content versioning service for courses, modules and lessons",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&skipMigrate, "skip-migrate", false, "do not auto-migrate the schema on startup")
	rootCmd.AddCommand(serveCmd, migrateCmd, versionsCmd, tokenCmd)
}

// withApp builds the application for one command and tears it down afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := app.New(ctx, app.Options{SkipMigrate: skipMigrate})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
