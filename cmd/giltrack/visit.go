package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"giltrack/internal/live"
	"giltrack/internal/report"
	"giltrack/internal/track"
)

var (
	visitEnter string
	visitExit  string
)

func visitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visit",
		Short: "Replay a bell visit from enter/exit snapshots and report earnings",
		Args:  cobra.NoArgs,
		RunE:  runVisit,
	}
	cmd.Flags().StringVar(&visitEnter, "enter", "", "YAML snapshot taken when the bell interaction began")
	cmd.Flags().StringVar(&visitExit, "exit", "", "YAML snapshot taken when the bell interaction ended")
	cmd.MarkFlagRequired("enter")
	cmd.MarkFlagRequired("exit")
	return cmd
}

// switchSource lets one tracker session see different snapshots for the
// enter and exit halves of the bracket.
type switchSource struct {
	cur live.Source
}

func (s *switchSource) CurrentCharacter(ctx context.Context) (live.CharacterSnapshot, error) {
	return s.cur.CurrentCharacter(ctx)
}

func (s *switchSource) RetainerListReady(ctx context.Context) bool {
	return s.cur.RetainerListReady(ctx)
}

func (s *switchSource) RetainerList(ctx context.Context) ([]live.RetainerSnapshot, error) {
	return s.cur.RetainerList(ctx)
}

func runVisit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	enter, err := live.LoadFile(visitEnter)
	if err != nil {
		return err
	}
	exit, err := live.LoadFile(visitExit)
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	src := &switchSource{cur: enter}
	tracker := track.New(database, src)

	if _, err := tracker.Reconcile(ctx, track.TriggerBellEnter); err != nil {
		return err
	}

	src.cur = exit
	result, err := tracker.Reconcile(ctx, track.TriggerBellExit)
	if err != nil {
		return err
	}

	if result.Visit == nil {
		return fmt.Errorf("bell exit did not close a visit bracket")
	}
	fmt.Fprint(os.Stdout, report.Visit(result.Visit))
	return nil
}
