package store

import (
	"context"
	"database/sql"
	"fmt"

	"giltrack/internal/model"
)

// UpsertCharacter inserts a character or updates its mutable fields. The id
// is never changed by an upsert.
func UpsertCharacter(ctx context.Context, db *sql.DB, c *model.Character) error {
	if c.ID == "" {
		return fmt.Errorf("upserting character: empty id")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO characters (id, name, world_id, gil, last_visited)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     name = excluded.name,
		     world_id = excluded.world_id,
		     gil = excluded.gil,
		     last_visited = excluded.last_visited`,
		c.ID, c.Name, c.WorldID, c.Gil, formatTime(c.LastVisited),
	)
	if err != nil {
		return fmt.Errorf("upserting character: %w", err)
	}
	return nil
}

// GetCharacter returns a character by id, or nil if not found.
func GetCharacter(ctx context.Context, db *sql.DB, id string) (*model.Character, error) {
	return scanCharacter(db.QueryRowContext(ctx,
		`SELECT id, name, world_id, gil, last_visited
		 FROM characters WHERE id = ?`, id,
	))
}

// FindCharacterByNameAndWorld returns the character with an exact
// case-sensitive name and world match, or nil if not found.
func FindCharacterByNameAndWorld(ctx context.Context, db *sql.DB, name string, worldID uint32) (*model.Character, error) {
	return scanCharacter(db.QueryRowContext(ctx,
		`SELECT id, name, world_id, gil, last_visited
		 FROM characters WHERE name = ? AND world_id = ?`, name, worldID,
	))
}

// ListCharacters returns all characters ordered by name.
func ListCharacters(ctx context.Context, db *sql.DB) ([]model.Character, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, world_id, gil, last_visited
		 FROM characters ORDER BY name, world_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	var characters []model.Character
	for rows.Next() {
		var c model.Character
		var visited string
		if err := rows.Scan(&c.ID, &c.Name, &c.WorldID, &c.Gil, &visited); err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		if c.LastVisited, err = parseTime(visited); err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		characters = append(characters, c)
	}
	return characters, rows.Err()
}

// DeleteCharacter removes a character. Fails if the character still owns
// retainers; characters are only deleted by an explicit user reset.
func DeleteCharacter(ctx context.Context, db *sql.DB, id string) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM retainers WHERE owner_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking character retainers: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete character: still owns %d retainers", count)
	}

	_, err = db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	return nil
}

func scanCharacter(row *sql.Row) (*model.Character, error) {
	c := &model.Character{}
	var visited string
	err := row.Scan(&c.ID, &c.Name, &c.WorldID, &c.Gil, &visited)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting character: %w", err)
	}
	if c.LastVisited, err = parseTime(visited); err != nil {
		return nil, fmt.Errorf("getting character: %w", err)
	}
	return c, nil
}
