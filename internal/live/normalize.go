package live

import "log/slog"

// Normalize filters a raw retainer slot array down to the entries worth
// persisting: placeholder slots (zero id or the host's filler label) are
// dropped, and duplicate ids keep their first occurrence. Duplicates are a
// host-side glitch, so they are logged and recovered from rather than
// failing the pass.
func Normalize(raw []RetainerSnapshot) []RetainerSnapshot {
	seen := make(map[uint64]bool, len(raw))
	out := make([]RetainerSnapshot, 0, len(raw))

	for i, r := range raw {
		if r.ID == 0 || r.Name == PlaceholderName {
			continue
		}
		if seen[r.ID] {
			slog.Warn("duplicate retainer id in live snapshot, keeping first occurrence",
				"retainer_id", r.ID, "name", r.Name, "slot", i+1)
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}
