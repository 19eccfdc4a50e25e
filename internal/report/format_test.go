package report

import (
	"strings"
	"testing"

	"giltrack/internal/model"
	"giltrack/internal/track"
)

func TestNumber(t *testing.T) {
	if got := Number(1234567); got != "1,234,567" {
		t.Errorf("Number(1234567) = %q", got)
	}
	if got := Number(-500); got != "-500" {
		t.Errorf("Number(-500) = %q", got)
	}
}

func TestVisitRendersNonzeroIdentities(t *testing.T) {
	v := &track.VisitDelta{
		Character: track.IdentityDelta{Name: "Alice", Before: 900, After: 1200},
		Retainers: []track.IdentityDelta{
			{RetainerID: 500, Name: "Bob", Before: 100, After: 300},
			{RetainerID: 501, Name: "Carla", Before: 50, After: 50},
		},
		Before: 1050,
		After:  1550,
	}

	out := Visit(v)
	if !strings.Contains(out, "Alice earned 300 gil") {
		t.Errorf("missing character line in %q", out)
	}
	if !strings.Contains(out, "Retainer Bob earned 200 gil") {
		t.Errorf("missing retainer line in %q", out)
	}
	if strings.Contains(out, "Carla") {
		t.Errorf("zero-delta retainer must be omitted: %q", out)
	}
	if !strings.Contains(out, "Total: earned 500 gil") {
		t.Errorf("missing total line in %q", out)
	}
}

func TestVisitNoChange(t *testing.T) {
	v := &track.VisitDelta{
		Character: track.IdentityDelta{Name: "Alice", Before: 900, After: 900},
		Before:    900,
		After:     900,
	}
	if got := Visit(v); got != "No gil change since the last bell visit\n" {
		t.Errorf("unexpected no-change output %q", got)
	}
}

func TestVisitLoss(t *testing.T) {
	v := &track.VisitDelta{
		Character: track.IdentityDelta{Name: "Alice", Before: 1200, After: 900},
		Before:    1200,
		After:     900,
	}
	out := Visit(v)
	if !strings.Contains(out, "Alice lost 300 gil") {
		t.Errorf("missing loss line in %q", out)
	}
	if !strings.Contains(out, "Total: lost 300 gil") {
		t.Errorf("missing total line in %q", out)
	}
}

func TestToday(t *testing.T) {
	if got := Today("Alice", track.DayDelta{Amount: 1500}); got != "Alice: today's gil gain: 1,500\n" {
		t.Errorf("gain output %q", got)
	}
	if got := Today("Alice", track.DayDelta{Amount: -200}); got != "Alice: today's gil loss: 200\n" {
		t.Errorf("loss output %q", got)
	}
	if got := Today("Alice", track.DayDelta{}); got != "Alice: today's gil gain/loss: 0\n" {
		t.Errorf("zero output %q", got)
	}
}

func TestTotals(t *testing.T) {
	totals := &track.Totals{
		PerCharacter: []track.CharacterTotal{
			{Character: model.Character{Name: "Alice", WorldID: 33}, RetainerCount: 2, Total: 1500000},
			{Character: model.Character{Name: "Zoe", WorldID: 40}, RetainerCount: 0, Total: 2000},
		},
		AllCharacters:  1502000,
		CharacterCount: 2,
		RetainerCount:  2,
	}

	out := Totals(totals)
	if !strings.Contains(out, "Alice (world 33): 1,500,000 gil (2 retainers)") {
		t.Errorf("missing Alice line in %q", out)
	}
	if !strings.Contains(out, "All 2 characters, 2 retainers: 1,502,000 gil") {
		t.Errorf("missing summary line in %q", out)
	}
}
