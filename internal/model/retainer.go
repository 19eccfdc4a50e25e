package model

import "time"

// Retainer represents a sub-agent owned by exactly one character. The ID is
// the host's internal retainer identifier: stable for the retainer's
// lifetime and globally unique across all characters, so it is the primary
// matching key (never the name, which can change or collide).
type Retainer struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Gil         int64     `json:"gil"`
	OwnerID     string    `json:"owner_id"`
	LastVisited time.Time `json:"last_visited"`
}

// CharacterRecordID is the retainer-id sentinel marking a balance record that
// belongs to the character itself rather than one of its retainers.
const CharacterRecordID uint64 = 0
