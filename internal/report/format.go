// Package report renders reconciliation results and earnings figures as
// human-readable text.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"giltrack/internal/track"
)

var printer = message.NewPrinter(language.English)

// Number formats a gil amount with thousands separators.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Visit renders a bell-visit earnings bracket: one line per identity that
// earned or lost gil, plus the account-wide total. Identities with a zero
// delta are omitted, and a zero overall bracket yields a single no-change
// line.
func Visit(v *track.VisitDelta) string {
	var b strings.Builder

	if d := v.Character.Diff(); d != 0 {
		fmt.Fprintf(&b, "%s %s %s gil since the last bell visit\n",
			v.Character.Name, earnedOrLost(d), Number(abs(d)))
	}
	for _, r := range v.Retainers {
		if d := r.Diff(); d != 0 {
			fmt.Fprintf(&b, "Retainer %s %s %s gil\n", r.Name, earnedOrLost(d), Number(abs(d)))
		}
	}

	total := v.Diff()
	if total == 0 && b.Len() == 0 {
		return "No gil change since the last bell visit\n"
	}
	fmt.Fprintf(&b, "Total: %s %s gil\n", earnedOrLost(total), Number(abs(total)))
	return b.String()
}

// Today renders the daily gain/loss line.
func Today(name string, d track.DayDelta) string {
	switch d.Direction() {
	case "gain":
		return fmt.Sprintf("%s: today's gil gain: %s\n", name, Number(d.Amount))
	case "loss":
		return fmt.Sprintf("%s: today's gil loss: %s\n", name, Number(-d.Amount))
	}
	return fmt.Sprintf("%s: today's gil gain/loss: 0\n", name)
}

// Totals renders the registry-wide summary table.
func Totals(t *track.Totals) string {
	var b strings.Builder
	for _, ct := range t.PerCharacter {
		fmt.Fprintf(&b, "%s (world %d): %s gil (%d retainers)\n",
			ct.Character.Name, ct.Character.WorldID, Number(ct.Total), ct.RetainerCount)
	}
	fmt.Fprintf(&b, "All %d characters, %d retainers: %s gil\n",
		t.CharacterCount, t.RetainerCount, Number(t.AllCharacters))
	return b.String()
}

func earnedOrLost(d int64) string {
	if d < 0 {
		return "lost"
	}
	return "earned"
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
