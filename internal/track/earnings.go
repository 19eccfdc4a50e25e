package track

import (
	"context"
	"fmt"
	"time"

	"giltrack/internal/model"
	"giltrack/internal/store"
)

// IdentityDelta is the before/after balance of one identity (the character
// itself or a single retainer) across an event window.
type IdentityDelta struct {
	RetainerID uint64 // 0 for the character itself
	Name       string
	Before     int64
	After      int64
}

// Diff is the earnings across the window; negative when spending exceeded
// earning.
func (d IdentityDelta) Diff() int64 {
	return d.After - d.Before
}

// VisitDelta is the earnings bracket around one bell visit: per-identity
// deltas plus the account-wide total.
type VisitDelta struct {
	CharacterID string
	Character   IdentityDelta
	Retainers   []IdentityDelta
	Before      int64
	After       int64
}

func (v VisitDelta) Diff() int64 {
	return v.After - v.Before
}

// DayDelta is the gain or loss since the first recorded balance of the
// current calendar day.
type DayDelta struct {
	Amount int64
}

// Direction reports "gain", "loss", or "zero".
func (d DayDelta) Direction() string {
	switch {
	case d.Amount > 0:
		return "gain"
	case d.Amount < 0:
		return "loss"
	}
	return "zero"
}

// visitBaseline is an immutable value snapshot of balances taken when a bell
// interaction begins. Plain copies, never aliases of live records, so a later
// pass cannot mutate the "before" side of the bracket.
type visitBaseline struct {
	characterGil int64
	retainers    map[uint64]retainerBaseline
	total        int64
}

type retainerBaseline struct {
	name string
	gil  int64
}

// captureBaseline snapshots balances at bell-enter time.
func (t *Tracker) captureBaseline(agg model.CharacterWithRetainers) {
	base := visitBaseline{
		characterGil: agg.Character.Gil,
		retainers:    make(map[uint64]retainerBaseline, len(agg.Retainers)),
		total:        agg.TotalGil(),
	}
	for _, r := range agg.Retainers {
		base.retainers[r.ID] = retainerBaseline{name: r.Name, gil: r.Gil}
	}

	t.mu.Lock()
	t.baselines[agg.Character.ID] = base
	t.mu.Unlock()
}

// closeVisit diffs the post-pass aggregate against the bell-enter baseline.
// Returns nil when no baseline was captured (exit without matching enter).
func (t *Tracker) closeVisit(agg model.CharacterWithRetainers) *VisitDelta {
	t.mu.Lock()
	base, ok := t.baselines[agg.Character.ID]
	if ok {
		delete(t.baselines, agg.Character.ID)
	}
	t.mu.Unlock()
	if !ok {
		return nil
	}

	visit := &VisitDelta{
		CharacterID: agg.Character.ID,
		Character: IdentityDelta{
			Name:   agg.Character.Name,
			Before: base.characterGil,
			After:  agg.Character.Gil,
		},
		Before: base.total,
		After:  agg.TotalGil(),
	}
	for _, r := range agg.Retainers {
		rb, known := base.retainers[r.ID]
		if !known {
			// Retainer appeared during the visit; its whole balance is new.
			rb = retainerBaseline{name: r.Name}
		}
		visit.Retainers = append(visit.Retainers, IdentityDelta{
			RetainerID: r.ID,
			Name:       r.Name,
			Before:     rb.gil,
			After:      r.Gil,
		})
	}

	t.mu.Lock()
	t.visits[agg.Character.ID] = visit
	t.mu.Unlock()
	return visit
}

// VisitDelta returns the earnings bracket from the character's most recent
// completed bell visit, or ErrNoVisit when no enter/exit bracket has
// completed this session.
func (t *Tracker) VisitDelta(characterID string) (*VisitDelta, error) {
	t.mu.Lock()
	visit, ok := t.visits[characterID]
	t.mu.Unlock()
	if !ok {
		return nil, ErrNoVisit
	}
	return visit, nil
}

// TodayDelta computes the character's gain or loss since the first balance
// recorded today. On the first call of a new day, before any pass has
// recorded a first-of-day observation, it bootstraps that record from the
// current balances and reports exactly zero.
func (t *Tracker) TodayDelta(ctx context.Context, characterID string) (DayDelta, error) {
	now := t.now()

	// A future-dated last update poisons every day-relative figure.
	last, found, err := store.LastUpdate(ctx, t.db)
	if err != nil {
		return DayDelta{}, err
	}
	if found && dayOf(last).After(dayOf(now)) {
		return DayDelta{}, fmt.Errorf("%w: last update %s, now %s", ErrClockAnomaly,
			last.Format("2006-01-02"), now.Format("2006-01-02"))
	}

	first, haveFirst, err := store.FirstDailyTotal(ctx, t.db, characterID, now)
	if err != nil {
		return DayDelta{}, err
	}
	if !haveFirst {
		if err := store.BootstrapFirstDaily(ctx, t.db, characterID, now); err != nil {
			return DayDelta{}, err
		}
		return DayDelta{Amount: 0}, nil
	}

	current, err := store.CurrentTotal(ctx, t.db, characterID)
	if err != nil {
		return DayDelta{}, err
	}
	return DayDelta{Amount: current - first}, nil
}

// CharacterIncome sums the character's own recorded balances in [start, end].
func (t *Tracker) CharacterIncome(ctx context.Context, characterID string, start, end time.Time) (int64, error) {
	if err := checkWindow(start, end); err != nil {
		return 0, err
	}
	return store.IncomeBetween(ctx, t.db, characterID, model.CharacterRecordID, start, end)
}

// RetainerIncome sums one retainer's recorded balances in [start, end].
func (t *Tracker) RetainerIncome(ctx context.Context, characterID string, retainerID uint64, start, end time.Time) (int64, error) {
	if err := checkWindow(start, end); err != nil {
		return 0, err
	}
	return store.IncomeBetween(ctx, t.db, characterID, retainerID, start, end)
}

// TotalIncome sums recorded balances in [start, end] for the character and
// all its retainers.
func (t *Tracker) TotalIncome(ctx context.Context, characterID string, start, end time.Time) (int64, error) {
	if err := checkWindow(start, end); err != nil {
		return 0, err
	}
	return store.TotalIncomeBetween(ctx, t.db, characterID, start, end)
}

func checkWindow(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("invalid window: end %s before start %s",
			end.Format(time.DateTime), start.Format(time.DateTime))
	}
	return nil
}
