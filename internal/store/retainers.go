package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giltrack/internal/model"
)

// UpsertRetainer inserts a retainer or updates its mutable fields. The owner
// row must already exist; the foreign key rejects orphan retainers.
func UpsertRetainer(ctx context.Context, db *sql.DB, r *model.Retainer) error {
	if r.ID == model.CharacterRecordID {
		return fmt.Errorf("upserting retainer: id 0 is reserved")
	}
	if r.OwnerID == "" {
		return fmt.Errorf("upserting retainer: empty owner id")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO retainers (retainer_id, name, gil, owner_id, last_visited)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (retainer_id) DO UPDATE SET
		     name = excluded.name,
		     gil = excluded.gil,
		     owner_id = excluded.owner_id,
		     last_visited = excluded.last_visited`,
		r.ID, r.Name, r.Gil, r.OwnerID, formatTime(r.LastVisited),
	)
	if err != nil {
		return fmt.Errorf("upserting retainer: %w", err)
	}
	return nil
}

// GetRetainer returns a retainer by its host-supplied id, or nil if not found.
func GetRetainer(ctx context.Context, db *sql.DB, id uint64) (*model.Retainer, error) {
	r := &model.Retainer{}
	var visited string
	err := db.QueryRowContext(ctx,
		`SELECT retainer_id, name, gil, owner_id, last_visited
		 FROM retainers WHERE retainer_id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Gil, &r.OwnerID, &visited)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting retainer: %w", err)
	}
	if r.LastVisited, err = parseTime(visited); err != nil {
		return nil, fmt.Errorf("getting retainer: %w", err)
	}
	return r, nil
}

// ListRetainersByOwner returns all retainers owned by a character.
func ListRetainersByOwner(ctx context.Context, db *sql.DB, ownerID string) ([]model.Retainer, error) {
	return queryRetainers(ctx, db,
		`SELECT retainer_id, name, gil, owner_id, last_visited
		 FROM retainers WHERE owner_id = ? ORDER BY name`, ownerID)
}

// ListAllRetainers returns every stored retainer across all characters,
// needed for global rename matching.
func ListAllRetainers(ctx context.Context, db *sql.DB) ([]model.Retainer, error) {
	return queryRetainers(ctx, db,
		`SELECT retainer_id, name, gil, owner_id, last_visited FROM retainers`)
}

// DeleteRetainer removes a retainer by id.
func DeleteRetainer(ctx context.Context, db *sql.DB, id uint64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM retainers WHERE retainer_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting retainer: %w", err)
	}
	return nil
}

// PruneRetainers deletes every retainer owned by the character that was not
// stamped in the pass identified by stamp, and returns how many were removed.
// Only call this after a complete live enumeration for that pass.
func PruneRetainers(ctx context.Context, db *sql.DB, ownerID string, stamp string) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM retainers WHERE owner_id = ? AND last_visited != ?`,
		ownerID, stamp,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning retainers: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning retainers: %w", err)
	}
	return n, nil
}

// PassStamp formats a pass timestamp the way last_visited is stored, for use
// with PruneRetainers.
func PassStamp(t time.Time) string {
	return formatTime(t)
}

func queryRetainers(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Retainer, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing retainers: %w", err)
	}
	defer rows.Close()

	var retainers []model.Retainer
	for rows.Next() {
		var r model.Retainer
		var visited string
		if err := rows.Scan(&r.ID, &r.Name, &r.Gil, &r.OwnerID, &visited); err != nil {
			return nil, fmt.Errorf("scanning retainer: %w", err)
		}
		if r.LastVisited, err = parseTime(visited); err != nil {
			return nil, fmt.Errorf("scanning retainer: %w", err)
		}
		retainers = append(retainers, r)
	}
	return retainers, rows.Err()
}
