package track

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"giltrack/internal/live"
	"giltrack/internal/model"
	"giltrack/internal/store"
)

// Resolution describes how a live character snapshot mapped onto the durable
// registry.
type Resolution struct {
	Character *model.Character

	// Created is true when no stored character matched and a fresh identity
	// was allocated.
	Created bool

	// Renamed is true when the snapshot was recognized as a known character
	// under a different name or world, via retainer matching.
	Renamed     bool
	RenamedFrom string

	// Ambiguous is true when retainer matching found candidate owners under
	// more than one stored character. Resolution still succeeds using the
	// most recently visited candidate, but the situation is flagged for
	// diagnostics.
	Ambiguous bool
}

// resolveCharacter maps a live character snapshot onto a stored identity,
// creating or renaming as needed, and persists the resolved character with
// its balance and visit time updated.
//
// The live name+world pair is tried first. Failing that, the live retainers
// are matched against every stored retainer: a name AND id match means the
// account already exists under a different character name, because retainer
// ids never migrate between accounts. Only when neither path matches is a
// new identity allocated.
func resolveCharacter(ctx context.Context, db *sql.DB, snap live.CharacterSnapshot, liveRetainers []live.RetainerSnapshot, now time.Time) (*Resolution, error) {
	known, err := store.FindCharacterByNameAndWorld(ctx, db, snap.Name, snap.WorldID)
	if err != nil {
		return nil, err
	}
	if known != nil {
		known.Gil = snap.Gil
		known.LastVisited = now
		if err := store.UpsertCharacter(ctx, db, known); err != nil {
			return nil, err
		}
		return &Resolution{Character: known}, nil
	}

	ownerID, ambiguous, err := matchRetainerOwner(ctx, db, liveRetainers)
	if err != nil {
		return nil, err
	}

	if ownerID == "" {
		c := model.NewCharacter(snap.Name, snap.WorldID, snap.Gil)
		c.LastVisited = now
		if err := store.UpsertCharacter(ctx, db, c); err != nil {
			return nil, err
		}
		slog.Info("new character registered", "name", c.Name, "world_id", c.WorldID)
		return &Resolution{Character: c, Created: true}, nil
	}

	old, err := store.GetCharacter(ctx, db, ownerID)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, fmt.Errorf("resolving character: matched retainer owner %s has no character record", ownerID)
	}

	renamedFrom := old.Name
	old.Name = snap.Name
	old.WorldID = snap.WorldID
	old.Gil = snap.Gil
	old.LastVisited = now
	if err := store.UpsertCharacter(ctx, db, old); err != nil {
		return nil, err
	}
	slog.Info("character rename detected", "old_name", renamedFrom, "new_name", snap.Name)
	return &Resolution{Character: old, Renamed: true, RenamedFrom: renamedFrom, Ambiguous: ambiguous}, nil
}

// matchRetainerOwner scans stored retainers for a name+id pair matching any
// live retainer and returns the owning character id, or "" when nothing
// matches. When matches point at more than one stored owner the candidate
// with the most recent last_visited wins (falling back to snapshot order on
// an exact tie) and ambiguous is reported true.
func matchRetainerOwner(ctx context.Context, db *sql.DB, liveRetainers []live.RetainerSnapshot) (ownerID string, ambiguous bool, err error) {
	stored, err := store.ListAllRetainers(ctx, db)
	if err != nil {
		return "", false, err
	}
	if len(stored) == 0 {
		return "", false, nil
	}

	byID := make(map[uint64]model.Retainer, len(stored))
	for _, r := range stored {
		byID[r.ID] = r
	}

	var candidates []string
	seen := make(map[string]bool)
	for _, lr := range liveRetainers {
		sr, ok := byID[lr.ID]
		if !ok || sr.Name != lr.Name {
			continue
		}
		if !seen[sr.OwnerID] {
			seen[sr.OwnerID] = true
			candidates = append(candidates, sr.OwnerID)
		}
	}

	switch len(candidates) {
	case 0:
		return "", false, nil
	case 1:
		return candidates[0], false, nil
	}

	// Conflicting candidates under different owners. Prefer the most
	// recently active one; candidates preserves snapshot order, so the
	// strict > comparison keeps the earlier match on a timestamp tie.
	best := ""
	var bestVisited time.Time
	for _, id := range candidates {
		c, err := store.GetCharacter(ctx, db, id)
		if err != nil {
			return "", false, err
		}
		if c == nil {
			continue
		}
		if best == "" || c.LastVisited.After(bestVisited) {
			best = id
			bestVisited = c.LastVisited
		}
	}
	slog.Warn("ambiguous rename match, using most recently visited candidate",
		"candidates", candidates, "chosen", best)
	return best, true, nil
}
