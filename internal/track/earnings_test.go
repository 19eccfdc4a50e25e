package track

import (
	"context"
	"errors"
	"testing"
	"time"

	"giltrack/internal/live"
	"giltrack/internal/store"
)

func TestTodayDeltaBootstrapsToZero(t *testing.T) {
	src := &stubSource{
		char:      live.CharacterSnapshot{Name: "Alice", WorldID: 33, Gil: 1000},
		ready:     true,
		retainers: []live.RetainerSnapshot{{ID: 500, Name: "Bob", Gil: 300}},
	}
	tr := newTestTracker(t, src, "2026-08-29 22:00:00")
	ctx := context.Background()

	result, err := tr.Reconcile(ctx, TriggerLogin)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	charID := result.Character.ID

	// A new day with no pass yet: the first query seeds today's baseline from
	// the carried-over records and reports exactly zero.
	tr.now = func() time.Time { return mustTime(t, "2026-08-30 08:00:00") }
	delta, err := tr.TodayDelta(ctx, charID)
	if err != nil {
		t.Fatalf("TodayDelta: %v", err)
	}
	if delta.Amount != 0 || delta.Direction() != "zero" {
		t.Errorf("expected zero delta on bootstrap, got %+v", delta)
	}

	// Asking again without an intervening pass still reports zero.
	delta, err = tr.TodayDelta(ctx, charID)
	if err != nil {
		t.Fatalf("TodayDelta: %v", err)
	}
	if delta.Amount != 0 {
		t.Errorf("expected zero delta before any pass today, got %+v", delta)
	}
}

func TestTodayDeltaBootstrapSurvivesFirstPassOfDay(t *testing.T) {
	src := &stubSource{
		char:  live.CharacterSnapshot{Name: "Alice", WorldID: 33, Gil: 1000},
		ready: true,
	}
	tr := newTestTracker(t, src, "2026-08-29 22:00:00")
	ctx := context.Background()

	result, err := tr.Reconcile(ctx, TriggerLogin)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	charID := result.Character.ID

	// Next morning, the delta is asked for before any pass has run: the
	// baseline is bootstrapped from the carried-over balance.
	tr.now = func() time.Time { return mustTime(t, "2026-08-30 08:00:00") }
	delta, err := tr.TodayDelta(ctx, charID)
	if err != nil {
		t.Fatalf("TodayDelta: %v", err)
	}
	if delta.Amount != 0 {
		t.Fatalf("expected zero delta on bootstrap, got %+v", delta)
	}

	// The day's first pass triggers the rollover aggregation. It must not
	// wipe the bootstrapped baseline, so the gain is still measured against
	// the carried-over balance rather than the fresh observation.
	src.char.Gil = 1500
	tr.now = func() time.Time { return mustTime(t, "2026-08-30 09:00:00") }
	if _, err := tr.Reconcile(ctx, TriggerUserRequest); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	delta, err = tr.TodayDelta(ctx, charID)
	if err != nil {
		t.Fatalf("TodayDelta: %v", err)
	}
	if delta.Amount != 500 || delta.Direction() != "gain" {
		t.Errorf("expected gain of 500 against the bootstrapped baseline, got %+v", delta)
	}
}

func TestTodayDeltaReportsGain(t *testing.T) {
	src := &stubSource{
		char:      live.CharacterSnapshot{Name: "Alice", WorldID: 33, Gil: 1000},
		ready:     true,
		retainers: []live.RetainerSnapshot{{ID: 500, Name: "Bob", Gil: 300}},
	}
	tr := newTestTracker(t, src, "2026-08-30 08:00:00")
	ctx := context.Background()

	result, err := tr.Reconcile(ctx, TriggerLogin)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	src.char.Gil = 1300
	src.retainers[0].Gil = 400
	tr.now = func() time.Time { return mustTime(t, "2026-08-30 12:00:00") }
	if _, err := tr.Reconcile(ctx, TriggerUserRequest); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	delta, err := tr.TodayDelta(ctx, result.Character.ID)
	if err != nil {
		t.Fatalf("TodayDelta: %v", err)
	}
	if delta.Amount != 400 || delta.Direction() != "gain" {
		t.Errorf("expected gain of 400, got %+v", delta)
	}
}

func TestTodayDeltaReportsLoss(t *testing.T) {
	src := &stubSource{
		char:  live.CharacterSnapshot{Name: "Alice", WorldID: 33, Gil: 1000},
		ready: true,
	}
	tr := newTestTracker(t, src, "2026-08-30 08:00:00")
	ctx := context.Background()

	result, err := tr.Reconcile(ctx, TriggerLogin)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	src.char.Gil = 700
	tr.now = func() time.Time { return mustTime(t, "2026-08-30 12:00:00") }
	if _, err := tr.Reconcile(ctx, TriggerUserRequest); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	delta, err := tr.TodayDelta(ctx, result.Character.ID)
	if err != nil {
		t.Fatalf("TodayDelta: %v", err)
	}
	if delta.Amount != -300 || delta.Direction() != "loss" {
		t.Errorf("expected loss of 300, got %+v", delta)
	}
}

func TestTodayDeltaClockAnomaly(t *testing.T) {
	tr := newTestTracker(t, nil, "2026-08-30 10:00:00")
	ctx := context.Background()

	if err := store.TouchLastUpdate(ctx, tr.db, mustTime(t, "2026-09-05 10:00:00")); err != nil {
		t.Fatalf("TouchLastUpdate: %v", err)
	}

	if _, err := tr.TodayDelta(ctx, "whoever"); !errors.Is(err, ErrClockAnomaly) {
		t.Errorf("expected ErrClockAnomaly, got %v", err)
	}
}

func TestVisitDeltaNoVisit(t *testing.T) {
	tr := newTestTracker(t, nil, "2026-08-30 10:00:00")
	if _, err := tr.VisitDelta("whoever"); !errors.Is(err, ErrNoVisit) {
		t.Errorf("expected ErrNoVisit, got %v", err)
	}
}

func TestIncomeWindows(t *testing.T) {
	src := &stubSource{
		char:      live.CharacterSnapshot{Name: "Alice", WorldID: 33, Gil: 1000},
		ready:     true,
		retainers: []live.RetainerSnapshot{{ID: 500, Name: "Bob", Gil: 250}},
	}
	tr := newTestTracker(t, src, "2026-08-30 10:00:00")
	ctx := context.Background()

	result, err := tr.Reconcile(ctx, TriggerLogin)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	charID := result.Character.ID

	start := mustTime(t, "2026-08-30 00:00:00")
	end := mustTime(t, "2026-08-30 23:59:59")

	own, err := tr.CharacterIncome(ctx, charID, start, end)
	if err != nil {
		t.Fatalf("CharacterIncome: %v", err)
	}
	if own != 1000 {
		t.Errorf("expected character income 1000, got %d", own)
	}

	ret, err := tr.RetainerIncome(ctx, charID, 500, start, end)
	if err != nil {
		t.Fatalf("RetainerIncome: %v", err)
	}
	if ret != 250 {
		t.Errorf("expected retainer income 250, got %d", ret)
	}

	total, err := tr.TotalIncome(ctx, charID, start, end)
	if err != nil {
		t.Fatalf("TotalIncome: %v", err)
	}
	if total != 1250 {
		t.Errorf("expected total income 1250, got %d", total)
	}

	// A window outside the recorded day is empty.
	empty, err := tr.TotalIncome(ctx, charID, mustTime(t, "2026-09-01 00:00:00"), mustTime(t, "2026-09-01 23:59:59"))
	if err != nil {
		t.Fatalf("TotalIncome: %v", err)
	}
	if empty != 0 {
		t.Errorf("expected no income outside the window, got %d", empty)
	}
}

func TestIncomeWindowInverted(t *testing.T) {
	tr := newTestTracker(t, nil, "2026-08-30 10:00:00")

	start := mustTime(t, "2026-08-30 10:00:00")
	end := mustTime(t, "2026-08-29 10:00:00")
	if _, err := tr.TotalIncome(context.Background(), "whoever", start, end); err == nil {
		t.Error("expected error for end before start")
	}
}

func TestCloseVisitRetainerAppearedDuringVisit(t *testing.T) {
	src := &stubSource{
		char:  live.CharacterSnapshot{Name: "Alice", WorldID: 33, Gil: 1000},
		ready: true,
	}
	tr := newTestTracker(t, src, "2026-08-30 10:00:00")
	ctx := context.Background()

	if _, err := tr.Reconcile(ctx, TriggerBellEnter); err != nil {
		t.Fatalf("Reconcile enter: %v", err)
	}

	src.retainers = []live.RetainerSnapshot{{ID: 500, Name: "Bob", Gil: 400}}
	exit, err := tr.Reconcile(ctx, TriggerBellExit)
	if err != nil {
		t.Fatalf("Reconcile exit: %v", err)
	}

	v := exit.Visit
	if v == nil {
		t.Fatal("expected a visit delta")
	}
	// The whole balance of a retainer first seen mid-visit counts as earned.
	if len(v.Retainers) != 1 || v.Retainers[0].Before != 0 || v.Retainers[0].Diff() != 400 {
		t.Errorf("unexpected retainer delta: %+v", v.Retainers)
	}
	if v.Diff() != 400 {
		t.Errorf("expected total visit delta 400, got %d", v.Diff())
	}
}
