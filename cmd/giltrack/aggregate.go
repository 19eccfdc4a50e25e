package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"giltrack/internal/store"
)

func aggregateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate",
		Short: "Compact raw gil records into per-day summaries now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			if err := store.DailyAggregation(ctx, database, time.Now()); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Daily aggregation complete.")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print giltrack version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(os.Stdout, version)
		},
	}
}
