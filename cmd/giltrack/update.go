package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"giltrack/internal/live"
	"giltrack/internal/report"
	"giltrack/internal/track"
)

var updateSnapshot string

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Run a reconciliation pass from a live snapshot",
		Args:  cobra.NoArgs,
		RunE:  runUpdate,
	}
	cmd.Flags().StringVar(&updateSnapshot, "snapshot", "", "YAML snapshot of the live character and retainers")
	cmd.MarkFlagRequired("snapshot")
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	src, err := live.LoadFile(updateSnapshot)
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	tracker := track.New(database, src)
	result, err := tracker.Reconcile(ctx, track.TriggerUserRequest)
	if errors.Is(err, live.ErrNotReady) {
		fmt.Fprintln(os.Stdout, "Host snapshot not ready, try again later.")
		return nil
	}
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(r *track.Result) {
	c := r.Character
	switch {
	case r.Created:
		fmt.Fprintf(os.Stdout, "New character: %s (world %d)\n", c.Name, c.WorldID)
	case r.Renamed:
		fmt.Fprintf(os.Stdout, "Character renamed: %s -> %s\n", r.RenamedFrom, c.Name)
	}

	fmt.Fprintf(os.Stdout, "%s: %s gil", c.Name, report.Number(c.Gil))
	if len(r.Retainers) > 0 {
		fmt.Fprintf(os.Stdout, " + %d retainers = %s gil total", len(r.Retainers), report.Number(r.TotalGil()))
	}
	fmt.Fprintln(os.Stdout)

	if r.RetainersSkipped {
		fmt.Fprintln(os.Stdout, "Retainer list was not available; stored retainers left untouched.")
	}
	if r.NewRetainers > 0 {
		fmt.Fprintf(os.Stdout, "New retainers: %d\n", r.NewRetainers)
	}
	if r.PrunedRetainers > 0 {
		fmt.Fprintf(os.Stdout, "Removed stale retainers: %d\n", r.PrunedRetainers)
	}
}
