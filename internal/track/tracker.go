package track

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"giltrack/internal/live"
	"giltrack/internal/model"
	"giltrack/internal/store"
)

// Trigger identifies the external event that started a reconciliation pass.
type Trigger int

const (
	TriggerLogin Trigger = iota
	TriggerLogout
	TriggerUserRequest
	TriggerBellEnter
	TriggerBellExit
)

func (t Trigger) String() string {
	switch t {
	case TriggerLogin:
		return "login"
	case TriggerLogout:
		return "logout"
	case TriggerUserRequest:
		return "user-request"
	case TriggerBellEnter:
		return "bell-enter"
	case TriggerBellExit:
		return "bell-exit"
	}
	return "unknown"
}

// Result is the materialized outcome of one reconciliation pass.
type Result struct {
	model.CharacterWithRetainers

	Trigger     Trigger
	Created     bool
	Renamed     bool
	RenamedFrom string

	// RetainersSkipped is true when the retainer source was not ready
	// mid-pass: stored retainers were left untouched and nothing was pruned.
	RetainersSkipped bool
	NewRetainers     int
	PrunedRetainers  int

	// Visit holds the earnings bracket, set only on a bell-exit pass that
	// had a matching bell-enter baseline.
	Visit *VisitDelta
}

// Tracker runs reconciliation passes against one database and one live
// source. It carries all session state explicitly (visit baselines, pass
// locks), so independent sessions and tests can run side by side.
type Tracker struct {
	db  *sql.DB
	src live.Source
	now func() time.Time

	mu        sync.Mutex
	charLocks map[string]*sync.Mutex
	resolveMu sync.Mutex

	baselines map[string]visitBaseline
	visits    map[string]*VisitDelta
}

// New creates a tracker over an open database and a live source. src may be
// nil for reporting-only use; Reconcile requires it.
func New(db *sql.DB, src live.Source) *Tracker {
	return &Tracker{
		db:        db,
		src:       src,
		now:       time.Now,
		charLocks: make(map[string]*sync.Mutex),
		baselines: make(map[string]visitBaseline),
		visits:    make(map[string]*VisitDelta),
	}
}

// Reconcile runs one full update pass: day rollover, character resolution,
// retainer normalization and upserts, pruning, balance records, and the
// earnings bookkeeping the trigger calls for.
//
// An unavailable character snapshot aborts before any mutation with
// live.ErrNotReady. An unavailable retainer source mid-pass skips the
// retainer steps (and, critically, the prune) but still persists the
// character's balance.
func (t *Tracker) Reconcile(ctx context.Context, trigger Trigger) (*Result, error) {
	now := t.now()

	if err := t.rollDayIfNeeded(ctx, now); err != nil {
		return nil, err
	}

	snap, err := t.src.CurrentCharacter(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching character snapshot: %w", err)
	}

	retainersReady := t.src.RetainerListReady(ctx)
	var normalized []live.RetainerSnapshot
	if retainersReady {
		raw, err := t.src.RetainerList(ctx)
		if err != nil {
			// Ready flipped under us; treat as not ready rather than failing.
			slog.Debug("retainer list unavailable after ready check", "error", err)
			retainersReady = false
		} else {
			normalized = live.Normalize(raw)
		}
	}

	// Character resolution can create rows, so it is serialized globally;
	// the rest of the pass only needs the per-character lock.
	t.resolveMu.Lock()
	res, err := resolveCharacter(ctx, t.db, snap, normalized, now)
	if err != nil {
		t.resolveMu.Unlock()
		return nil, err
	}
	lock := t.charLock(res.Character.ID)
	t.resolveMu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	result := &Result{
		Trigger:     trigger,
		Created:     res.Created,
		Renamed:     res.Renamed,
		RenamedFrom: res.RenamedFrom,
	}

	charID := res.Character.ID
	if err := store.SaveGilRecord(ctx, t.db, charID, model.CharacterRecordID, res.Character.Gil, now); err != nil {
		return nil, err
	}

	if retainersReady {
		newCount, err := t.updateRetainers(ctx, charID, normalized, now)
		if err != nil {
			return nil, err
		}
		result.NewRetainers = newCount

		pruned, err := store.PruneRetainers(ctx, t.db, charID, store.PassStamp(now))
		if err != nil {
			return nil, err
		}
		result.PrunedRetainers = int(pruned)
		if pruned > 0 {
			slog.Info("pruned stale retainers", "character", res.Character.Name, "count", pruned)
		}
	} else {
		result.RetainersSkipped = true
		slog.Debug("retainer source not ready, keeping stored retainers", "trigger", trigger.String())
	}

	if err := store.TouchLastUpdate(ctx, t.db, now); err != nil {
		return nil, err
	}

	retainers, err := store.ListRetainersByOwner(ctx, t.db, charID)
	if err != nil {
		return nil, err
	}
	result.CharacterWithRetainers = model.CharacterWithRetainers{
		Character: *res.Character,
		Retainers: retainers,
	}

	switch trigger {
	case TriggerBellEnter:
		t.captureBaseline(result.CharacterWithRetainers)
	case TriggerBellExit:
		result.Visit = t.closeVisit(result.CharacterWithRetainers)
	}

	slog.Info("reconciliation pass complete",
		"trigger", trigger.String(),
		"character", res.Character.Name,
		"total_gil", result.TotalGil(),
		"retainers", len(retainers))

	return result, nil
}

// updateRetainers upserts every normalized live retainer under the resolved
// owner, stamping each with the pass time, and returns how many were new.
func (t *Tracker) updateRetainers(ctx context.Context, ownerID string, normalized []live.RetainerSnapshot, now time.Time) (int, error) {
	newCount := 0
	for _, lr := range normalized {
		existing, err := store.GetRetainer(ctx, t.db, lr.ID)
		if err != nil {
			return 0, err
		}
		switch {
		case existing == nil:
			newCount++
			slog.Info("new retainer found", "name", lr.Name, "retainer_id", lr.ID)
		case existing.Name != lr.Name:
			slog.Info("retainer renamed", "old_name", existing.Name, "new_name", lr.Name)
		}

		r := &model.Retainer{
			ID:          lr.ID,
			Name:        lr.Name,
			Gil:         lr.Gil,
			OwnerID:     ownerID,
			LastVisited: now,
		}
		if err := store.UpsertRetainer(ctx, t.db, r); err != nil {
			return 0, err
		}
		if err := store.SaveGilRecord(ctx, t.db, ownerID, lr.ID, lr.Gil, now); err != nil {
			return 0, err
		}
	}
	return newCount, nil
}

// rollDayIfNeeded runs the daily aggregation when the last completed pass
// happened on an earlier calendar day. A last-update date in the future means
// the system clock moved backwards and is fatal for the pass.
func (t *Tracker) rollDayIfNeeded(ctx context.Context, now time.Time) error {
	last, found, err := store.LastUpdate(ctx, t.db)
	if err != nil {
		return err
	}
	if !found {
		// First pass ever; nothing to aggregate.
		return nil
	}

	lastDay := dayOf(last)
	today := dayOf(now)
	switch {
	case lastDay.Equal(today):
		return nil
	case lastDay.After(today):
		return fmt.Errorf("%w: last update %s, now %s", ErrClockAnomaly,
			last.Format("2006-01-02"), now.Format("2006-01-02"))
	}

	slog.Info("new day, running daily aggregation", "last_update", last.Format("2006-01-02"))
	return store.DailyAggregation(ctx, t.db, now)
}

// AggregateTotals summarizes the whole registry: per-character totals, the
// grand total, and entity counts.
func (t *Tracker) AggregateTotals(ctx context.Context) (*Totals, error) {
	characters, err := store.ListCharacters(ctx, t.db)
	if err != nil {
		return nil, err
	}

	totals := &Totals{CharacterCount: len(characters)}
	for _, c := range characters {
		retainers, err := store.ListRetainersByOwner(ctx, t.db, c.ID)
		if err != nil {
			return nil, err
		}
		agg := model.CharacterWithRetainers{Character: c, Retainers: retainers}
		totals.PerCharacter = append(totals.PerCharacter, CharacterTotal{
			Character:     c,
			RetainerCount: len(retainers),
			Total:         agg.TotalGil(),
		})
		totals.AllCharacters += agg.TotalGil()
		totals.RetainerCount += len(retainers)
	}
	return totals, nil
}

// Totals is the registry-wide summary exposed to the reporting layer.
type Totals struct {
	PerCharacter   []CharacterTotal
	AllCharacters  int64
	CharacterCount int
	RetainerCount  int
}

// CharacterTotal is one character's share of the registry summary.
type CharacterTotal struct {
	Character     model.Character
	RetainerCount int
	Total         int64
}

func (t *Tracker) charLock(id string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.charLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		t.charLocks[id] = lock
	}
	return lock
}

// dayOf truncates a time to its local calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
