package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"giltrack/internal/report"
	"giltrack/internal/track"
)

var (
	reportCharacter string
	reportFrom      string
	reportTo        string
	reportRetainer  uint64
	reportCharOnly  bool
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Earnings reports",
	}
	cmd.PersistentFlags().StringVar(&reportCharacter, "character", "", "character as \"Name@WorldID\" (optional when only one is tracked)")
	cmd.AddCommand(reportTodayCmd())
	cmd.AddCommand(reportRangeCmd())
	return cmd
}

func reportTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Gil gained or lost since the first record of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			c, err := lookupCharacter(ctx, database, reportCharacter)
			if err != nil {
				return err
			}

			tracker := track.New(database, nil)
			delta, err := tracker.TodayDelta(ctx, c.ID)
			if err != nil {
				return err
			}

			fmt.Fprint(os.Stdout, report.Today(c.Name, delta))
			return nil
		},
	}
}

func reportRangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Summed gil records in a timestamp window",
		Args:  cobra.NoArgs,
		RunE:  runReportRange,
	}
	cmd.Flags().StringVar(&reportFrom, "from", "", "window start (YYYY-MM-DD or \"YYYY-MM-DD HH:MM:SS\")")
	cmd.Flags().StringVar(&reportTo, "to", "", "window end")
	cmd.Flags().Uint64Var(&reportRetainer, "retainer", 0, "restrict to one retainer id")
	cmd.Flags().BoolVar(&reportCharOnly, "character-only", false, "restrict to the character's own balance")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func runReportRange(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	start, err := parseWhen(reportFrom, false)
	if err != nil {
		return err
	}
	end, err := parseWhen(reportTo, true)
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	c, err := lookupCharacter(ctx, database, reportCharacter)
	if err != nil {
		return err
	}

	tracker := track.New(database, nil)

	var total int64
	switch {
	case reportCharOnly:
		total, err = tracker.CharacterIncome(ctx, c.ID, start, end)
	case reportRetainer != 0:
		total, err = tracker.RetainerIncome(ctx, c.ID, reportRetainer, start, end)
	default:
		total, err = tracker.TotalIncome(ctx, c.ID, start, end)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s: %s gil recorded between %s and %s\n",
		c.Name, report.Number(total),
		start.Format(time.DateTime), end.Format(time.DateTime))
	return nil
}

// parseWhen accepts a date or a full timestamp. A bare date means midnight,
// or end of day when the value closes the window.
func parseWhen(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateTime, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected YYYY-MM-DD or \"YYYY-MM-DD HH:MM:SS\"", s)
	}
	if endOfDay {
		return t.AddDate(0, 0, 1).Add(-time.Second), nil
	}
	return t, nil
}
