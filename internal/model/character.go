package model

import (
	"time"

	"github.com/google/uuid"
)

// Character represents one tracked player account identity. The ID is a
// locally generated identifier assigned once at first observation; name and
// world can both change (renames, server transfers) and are never part of the
// identity.
type Character struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WorldID     uint32    `json:"world_id"`
	Gil         int64     `json:"gil"`
	LastVisited time.Time `json:"last_visited"`
}

// NewCharacter creates a character with a fresh unique identity.
func NewCharacter(name string, worldID uint32, gil int64) *Character {
	return &Character{
		ID:      uuid.NewString(),
		Name:    name,
		WorldID: worldID,
		Gil:     gil,
	}
}

// CharacterWithRetainers is the materialized aggregate returned by a
// reconciliation pass.
type CharacterWithRetainers struct {
	Character Character  `json:"character"`
	Retainers []Retainer `json:"retainers"`
}

// TotalGil is the character's own gil plus the gil of all its retainers,
// recomputed from the current records every time.
func (c CharacterWithRetainers) TotalGil() int64 {
	total := c.Character.Gil
	for _, r := range c.Retainers {
		total += r.Gil
	}
	return total
}
