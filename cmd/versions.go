package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/app"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/services"
)

var (
	outputJSON  bool
	actorID     string
	description string
	keepLastN   int

	versionsCmd = &cobra.Command{
		Use:   "versions",
		Short: "Inspect and manage content version history",
	}

	versionsHistoryCmd = &cobra.Command{
		Use:   "history <entity-type> <entity-id>",
		Short: "List snapshots, newest first",
		Args:  cobra.ExactArgs(2),
		RunE:  runVersionsHistory,
	}
	versionsShowCmd = &cobra.Command{
		Use:   "show <entity-type> <entity-id> <version>",
		Short: "Print one snapshot",
		Args:  cobra.ExactArgs(3),
		RunE:  runVersionsShow,
	}
	versionsCreateCmd = &cobra.Command{
		Use:   "create <entity-type> <entity-id>",
		Short: "Snapshot the live entity as the next version",
		Args:  cobra.ExactArgs(2),
		RunE:  runVersionsCreate,
	}
	versionsCompareCmd = &cobra.Command{
		Use:   "compare <entity-type> <entity-id> <v1> <v2>",
		Short: "Show the fields that differ between two snapshots",
		Args:  cobra.ExactArgs(4),
		RunE:  runVersionsCompare,
	}
	versionsRollbackCmd = &cobra.Command{
		Use:   "rollback <entity-type> <entity-id> <version>",
		Short: "Restore the live entity to a snapshot, preserving the current state",
		Args:  cobra.ExactArgs(3),
		RunE:  runVersionsRollback,
	}
	versionsCleanupCmd = &cobra.Command{
		Use:   "cleanup <entity-type> <entity-id>",
		Short: "Delete all but the newest snapshots of one entity",
		Args:  cobra.ExactArgs(2),
		RunE:  runVersionsCleanup,
	}
	versionsSweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Apply the retention policy to every entity once",
		Args:  cobra.NoArgs,
		RunE:  runVersionsSweep,
	}
	versionsWatchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Stream version events published by running instances (needs REDIS_ADDR)",
		Args:  cobra.NoArgs,
		RunE:  runVersionsWatch,
	}
)

func init() {
	versionsCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print JSON instead of a table")
	versionsCreateCmd.Flags().StringVar(&actorID, "author", "", "author user id")
	versionsCreateCmd.Flags().StringVarP(&description, "message", "m", "", "change description")
	versionsRollbackCmd.Flags().StringVar(&actorID, "user", "", "user performing the rollback")
	versionsCleanupCmd.Flags().IntVar(&keepLastN, "keep", 0, "snapshots to keep (default: retention policy)")
	_ = versionsCreateCmd.MarkFlagRequired("author")
	_ = versionsRollbackCmd.MarkFlagRequired("user")

	versionsCmd.AddCommand(
		versionsHistoryCmd,
		versionsShowCmd,
		versionsCreateCmd,
		versionsCompareCmd,
		versionsRollbackCmd,
		versionsCleanupCmd,
		versionsSweepCmd,
		versionsWatchCmd,
	)
}

type entityArgs struct {
	Type versioning.EntityType
	ID   uuid.UUID
}

func parseEntityArgs(args []string) (entityArgs, error) {
	t, err := versioning.ParseEntityType(args[0])
	if err != nil {
		return entityArgs{}, err
	}
	id, err := uuid.Parse(args[1])
	if err != nil {
		return entityArgs{}, fmt.Errorf("invalid entity id %q: %w", args[1], err)
	}
	return entityArgs{Type: t, ID: id}, nil
}

func parseVersionArg(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q", raw)
	}
	return v, nil
}

func parseActor(flagName string) (uuid.UUID, error) {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s must be a UUID: %w", flagName, err)
	}
	return id, nil
}

func runVersionsHistory(cmd *cobra.Command, args []string) error {
	target, err := parseEntityArgs(args)
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		rows, err := a.Services.ContentVersions.GetHistory(ctx, target.Type, target.ID)
		if err != nil {
			return err
		}
		if outputJSON {
			return writeJSON(cmd.OutOrStdout(), rows)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tCREATED\tAUTHOR\tDESCRIPTION")
		for _, r := range rows {
			desc := ""
			if r.ChangeDescription != nil {
				desc = *r.ChangeDescription
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Version, r.CreatedAt.Format("2006-01-02 15:04:05"), r.AuthorID, desc)
		}
		return tw.Flush()
	})
}

func runVersionsShow(cmd *cobra.Command, args []string) error {
	target, err := parseEntityArgs(args)
	if err != nil {
		return err
	}
	version, err := parseVersionArg(args[2])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		row, err := a.Services.ContentVersions.GetVersion(ctx, target.Type, target.ID, version)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), row)
	})
}

func runVersionsCreate(cmd *cobra.Command, args []string) error {
	target, err := parseEntityArgs(args)
	if err != nil {
		return err
	}
	author, err := parseActor("author")
	if err != nil {
		return err
	}
	req := services.CreateVersionRequest{EntityType: target.Type, EntityID: target.ID, AuthorID: author}
	if cmd.Flags().Changed("message") {
		req.ChangeDescription = &description
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		row, err := a.Services.ContentVersions.CreateVersion(ctx, req)
		if err != nil {
			return err
		}
		if outputJSON {
			return writeJSON(cmd.OutOrStdout(), row)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s v%d\n", row.EntityType, row.EntityID, row.Version)
		return nil
	})
}

func runVersionsCompare(cmd *cobra.Command, args []string) error {
	target, err := parseEntityArgs(args)
	if err != nil {
		return err
	}
	v1, err := parseVersionArg(args[2])
	if err != nil {
		return err
	}
	v2, err := parseVersionArg(args[3])
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		diffs, err := a.Services.ContentVersions.Compare(ctx, target.Type, target.ID, v1, v2)
		if err != nil {
			return err
		}
		if outputJSON {
			return writeJSON(cmd.OutOrStdout(), diffs)
		}
		return writeDiffTable(cmd.OutOrStdout(), diffs)
	})
}

func runVersionsRollback(cmd *cobra.Command, args []string) error {
	target, err := parseEntityArgs(args)
	if err != nil {
		return err
	}
	version, err := parseVersionArg(args[2])
	if err != nil {
		return err
	}
	user, err := parseActor("user")
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		entity, err := a.Services.ContentVersions.Rollback(ctx, target.Type, target.ID, version, user)
		if err != nil {
			return err
		}
		if outputJSON {
			return writeJSON(cmd.OutOrStdout(), entity)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s %s to v%d\n", target.Type, target.ID, version)
		return nil
	})
}

func runVersionsCleanup(cmd *cobra.Command, args []string) error {
	target, err := parseEntityArgs(args)
	if err != nil {
		return err
	}
	var keep *int
	if cmd.Flags().Changed("keep") {
		keep = &keepLastN
	}
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		res, err := a.Services.ContentVersions.Cleanup(ctx, target.Type, target.ID, keep)
		if err != nil {
			return err
		}
		if outputJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d snapshot(s)\n", res.DeletedCount)
		return nil
	})
}

func runVersionsSweep(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		report, err := a.Services.Sweeper.SweepOnce(ctx)
		if werr := writeJSON(cmd.OutOrStdout(), report); werr != nil {
			return werr
		}
		return err
	})
}

func runVersionsWatch(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if a.Clients.VersionBus == nil {
			return fmt.Errorf("watch needs REDIS_ADDR")
		}
		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)
		if err := a.Clients.VersionBus.StartForwarder(ctx, func(ev versioning.Event) {
			_ = enc.Encode(ev)
		}); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeDiffTable(w io.Writer, diffs []versioning.FieldDiff) error {
	if len(diffs) == 0 {
		_, err := fmt.Fprintln(w, "no differences")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tOLD\tNEW")
	for _, d := range diffs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Field, compactJSON(d.OldValue), compactJSON(d.NewValue))
	}
	return tw.Flush()
}

func compactJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
