package track

import "errors"

var (
	// ErrClockAnomaly reports that the stored last-update timestamp is in the
	// future. Deltas computed against a misaligned clock would be nonsense,
	// so the affected operation aborts instead of guessing.
	ErrClockAnomaly = errors.New("stored last update is in the future, refusing to compute")

	// ErrNoVisit reports that a visit delta was requested without a
	// completed bell enter/exit bracket for that character.
	ErrNoVisit = errors.New("no completed bell visit for character")
)
