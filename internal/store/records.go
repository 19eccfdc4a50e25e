package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giltrack/internal/model"
)

const metaLastUpdate = "last_update"

// SaveGilRecord records a balance observation for a character (retainerID 0)
// or one of its retainers. The first observation of a calendar day also seeds
// the first-of-day baseline; later observations on the same day overwrite the
// day's record in place, so gil_records always holds the latest balance per
// identity per day. Both writes happen in one transaction.
func SaveGilRecord(ctx context.Context, db *sql.DB, characterID string, retainerID uint64, gil int64, now time.Time) error {
	day := formatDay(now)
	stamp := formatTime(now)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM first_daily_records
		 WHERE character_id = ? AND retainer_id = ? AND recorded_at >= ? AND recorded_at < ?`,
		characterID, retainerID, day, nextDay(day),
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking first daily record: %w", err)
	}
	if count == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO first_daily_records (character_id, retainer_id, gil, recorded_at)
			 VALUES (?, ?, ?, ?)`,
			characterID, retainerID, gil, stamp,
		)
		if err != nil {
			return fmt.Errorf("inserting first daily record: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE gil_records SET gil = ?, recorded_at = ?
		 WHERE character_id = ? AND retainer_id = ? AND recorded_at >= ? AND recorded_at < ?`,
		gil, stamp, characterID, retainerID, day, nextDay(day),
	)
	if err != nil {
		return fmt.Errorf("updating gil record: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating gil record: %w", err)
	}
	if updated == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO gil_records (character_id, retainer_id, gil, recorded_at)
			 VALUES (?, ?, ?, ?)`,
			characterID, retainerID, gil, stamp,
		)
		if err != nil {
			return fmt.Errorf("inserting gil record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing gil record: %w", err)
	}
	return nil
}

// FirstDailyTotal sums a character's first-of-day records (own balance plus
// retainers) for the given day. found is false when no record exists yet.
func FirstDailyTotal(ctx context.Context, db *sql.DB, characterID string, day time.Time) (total int64, found bool, err error) {
	d := formatDay(day)
	var sum sql.NullInt64
	err = db.QueryRowContext(ctx,
		`SELECT SUM(gil) FROM first_daily_records
		 WHERE character_id = ? AND recorded_at >= ? AND recorded_at < ?`,
		characterID, d, nextDay(d),
	).Scan(&sum)
	if err != nil {
		return 0, false, fmt.Errorf("summing first daily records: %w", err)
	}
	return sum.Int64, sum.Valid, nil
}

// BootstrapFirstDaily seeds today's first-of-day baseline from the current
// gil records, used when the daily delta is requested before any pass has
// recorded a first-of-day observation.
func BootstrapFirstDaily(ctx context.Context, db *sql.DB, characterID string, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO first_daily_records (character_id, retainer_id, gil, recorded_at)
		 SELECT character_id, retainer_id, gil, ?
		 FROM gil_records WHERE character_id = ?`,
		formatTime(now), characterID,
	)
	if err != nil {
		return fmt.Errorf("bootstrapping first daily records: %w", err)
	}
	return nil
}

// CurrentTotal sums the latest recorded balances for a character and all its
// retainers.
func CurrentTotal(ctx context.Context, db *sql.DB, characterID string) (int64, error) {
	var sum sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT SUM(gil) FROM gil_records WHERE character_id = ?`,
		characterID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing gil records: %w", err)
	}
	return sum.Int64, nil
}

// IncomeBetween sums recorded balance observations within [start, end] for
// one identity: retainerID 0 selects the character's own records, any other
// value a specific retainer.
func IncomeBetween(ctx context.Context, db *sql.DB, characterID string, retainerID uint64, start, end time.Time) (int64, error) {
	var sum sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT SUM(gil) FROM gil_records
		 WHERE character_id = ? AND retainer_id = ? AND recorded_at BETWEEN ? AND ?`,
		characterID, retainerID, formatTime(start), formatTime(end),
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing gil records in range: %w", err)
	}
	return sum.Int64, nil
}

// TotalIncomeBetween sums recorded balance observations within [start, end]
// across the character and all its retainers.
func TotalIncomeBetween(ctx context.Context, db *sql.DB, characterID string, start, end time.Time) (int64, error) {
	var sum sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT SUM(gil) FROM gil_records
		 WHERE character_id = ? AND recorded_at BETWEEN ? AND ?`,
		characterID, formatTime(start), formatTime(end),
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing gil records in range: %w", err)
	}
	return sum.Int64, nil
}

// DailyAggregation compacts balance observations recorded before the current
// day of now: per-day totals go to daily_summary, the raw records move to the
// archive, and the matching working rows are cleared. Rows recorded today are
// left alone, in particular a first-of-day baseline bootstrapped earlier the
// same day must survive the rollover. Everything runs in one transaction so a
// failure leaves the raw records intact.
func DailyAggregation(ctx context.Context, db *sql.DB, now time.Time) error {
	cutoff := formatDay(now)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO daily_summary (character_id, retainer_id, total_gil, day)
		 SELECT character_id, retainer_id, SUM(gil), substr(recorded_at, 1, 10)
		 FROM gil_records
		 WHERE recorded_at < ?
		 GROUP BY character_id, retainer_id, substr(recorded_at, 1, 10)`,
		cutoff,
	)
	if err != nil {
		return fmt.Errorf("aggregating daily summary: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO gil_records_archive (character_id, retainer_id, gil, recorded_at)
		 SELECT character_id, retainer_id, gil, recorded_at FROM gil_records
		 WHERE recorded_at < ?`,
		cutoff,
	)
	if err != nil {
		return fmt.Errorf("archiving gil records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM gil_records WHERE recorded_at < ?`, cutoff); err != nil {
		return fmt.Errorf("clearing gil records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM first_daily_records WHERE recorded_at < ?`, cutoff); err != nil {
		return fmt.Errorf("clearing first daily records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing daily aggregation: %w", err)
	}
	return nil
}

// LastUpdate returns the timestamp of the last completed pass. found is
// false before the first pass ever runs.
func LastUpdate(ctx context.Context, db *sql.DB) (t time.Time, found bool, err error) {
	var value string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, metaLastUpdate,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("getting last update: %w", err)
	}
	t, err = parseTime(value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("getting last update: %w", err)
	}
	return t, true, nil
}

// TouchLastUpdate records the completion time of a pass.
func TouchLastUpdate(ctx context.Context, db *sql.DB, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		metaLastUpdate, formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("touching last update: %w", err)
	}
	return nil
}

// DailySummaries returns compacted per-day totals for a character, newest
// day first. retainerID filters to one identity; pass a negative value for
// all identities.
func DailySummaries(ctx context.Context, db *sql.DB, characterID string, retainerID int64) ([]model.DailySummary, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if retainerID < 0 {
		rows, err = db.QueryContext(ctx,
			`SELECT character_id, retainer_id, total_gil, day FROM daily_summary
			 WHERE character_id = ? ORDER BY day DESC`, characterID)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT character_id, retainer_id, total_gil, day FROM daily_summary
			 WHERE character_id = ? AND retainer_id = ? ORDER BY day DESC`,
			characterID, retainerID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing daily summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.DailySummary
	for rows.Next() {
		var s model.DailySummary
		if err := rows.Scan(&s.CharacterID, &s.RetainerID, &s.TotalGil, &s.Day); err != nil {
			return nil, fmt.Errorf("scanning daily summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// nextDay returns the day string immediately after day, for half-open range
// scans over stored timestamps.
func nextDay(day string) string {
	t, err := time.ParseInLocation(dayLayout, day, time.Local)
	if err != nil {
		// day always comes from formatDay, so this cannot happen in practice.
		return day + "~"
	}
	return t.AddDate(0, 0, 1).Format(dayLayout)
}
