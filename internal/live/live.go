// Package live defines the capability surface the host game runtime
// provides: the logged-in character's identity and balance, and the ordered
// retainer slot array. The reconciliation engine only ever talks to a Source,
// so tests and the CLI substitute file-backed snapshots for the real host.
package live

import (
	"context"
	"errors"
)

// PlaceholderName is the fixed label the host reports for an empty retainer
// slot. Slots carrying it (or a zero id) are filler and must never be
// persisted or counted.
const PlaceholderName = "RETAINER"

// ErrNotReady reports that the host cannot supply a snapshot right now. It is
// recoverable; callers retry on a later trigger.
var ErrNotReady = errors.New("live snapshot not available")

// CharacterSnapshot is the host's view of the logged-in character.
type CharacterSnapshot struct {
	Name    string
	WorldID uint32
	Gil     int64
}

// RetainerSnapshot is one entry of the host's retainer slot array.
type RetainerSnapshot struct {
	ID   uint64
	Name string
	Gil  int64
}

// Source supplies live state from the host. Calls may block or be bound to
// the host's execution context; the engine treats them as short,
// context-aware calls and never caches results across passes.
type Source interface {
	// CurrentCharacter returns the logged-in character, or ErrNotReady when
	// the host has no player character available.
	CurrentCharacter(ctx context.Context) (CharacterSnapshot, error)

	// RetainerListReady reports whether RetainerList can produce a complete
	// enumeration right now.
	RetainerListReady(ctx context.Context) bool

	// RetainerList returns the raw ordered retainer slots, placeholders
	// included. Only valid when RetainerListReady returned true.
	RetainerList(ctx context.Context) ([]RetainerSnapshot, error)
}
