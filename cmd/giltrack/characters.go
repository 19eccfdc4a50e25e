package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"giltrack/internal/report"
	"giltrack/internal/track"
)

func charactersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List all tracked characters with their totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			tracker := track.New(database, nil)
			totals, err := tracker.AggregateTotals(ctx)
			if err != nil {
				return err
			}
			if totals.CharacterCount == 0 {
				fmt.Fprintln(os.Stdout, "No characters tracked yet.")
				return nil
			}

			fmt.Fprint(os.Stdout, report.Totals(totals))
			return nil
		},
	}
}
