package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hpungsan/solefit/internal/errors"
	"github.com/hpungsan/solefit/internal/history"
)

// Insert stores a new result record.
func Insert(ctx context.Context, db *sql.DB, r *history.Record) error {
	answersJSON, err := json.Marshal(r.Answers)
	if err != nil {
		return errors.NewInternal(err)
	}
	resultJSON, err := json.Marshal(r.Result)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO results (
			id, primary_id, primary_name, match_percentage, brand_preference,
			answers_json, result_json, created_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = db.ExecContext(ctx, query,
		r.ID, toNullString(r.PrimaryID), toNullString(r.PrimaryName), r.MatchPercentage,
		toNullString(r.BrandPreference), string(answersJSON), string(resultJSON), r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetByID retrieves a result by its ULID.
// If includeDeleted is false, soft-deleted results are excluded.
func GetByID(ctx context.Context, db *sql.DB, id string, includeDeleted bool) (*history.Record, error) {
	query := `
		SELECT id, primary_id, primary_name, match_percentage, brand_preference,
			answers_json, result_json, created_at, deleted_at
		FROM results
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	r, err := scanRecord(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("result", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return r, nil
}

// List returns result summaries, newest first.
func List(ctx context.Context, db *sql.DB, limit, offset int, includeDeleted bool) ([]history.Summary, error) {
	query := `
		SELECT id, primary_id, primary_name, match_percentage, brand_preference,
			created_at, deleted_at
		FROM results
	`
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []history.Summary
	for rows.Next() {
		var (
			s           history.Summary
			primaryID   sql.NullString
			primaryName sql.NullString
			brand       sql.NullString
			deletedAt   sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &primaryID, &primaryName, &s.MatchPercentage, &brand, &s.CreatedAt, &deletedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		s.PrimaryID = primaryID.String
		s.PrimaryName = primaryName.String
		s.BrandPreference = brand.String
		if deletedAt.Valid {
			s.DeletedAt = &deletedAt.Int64
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return summaries, nil
}

// Count returns the number of results.
func Count(ctx context.Context, db *sql.DB, includeDeleted bool) (int, error) {
	query := "SELECT COUNT(*) FROM results"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	var n int
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// SoftDelete marks a result as deleted by setting deleted_at.
func SoftDelete(ctx context.Context, db *sql.DB, id string) error {
	now := time.Now().Unix()

	result, err := db.ExecContext(ctx,
		"UPDATE results SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		now, id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("result", id)
	}
	return nil
}

// Purge permanently removes soft-deleted results. When olderThanDays is set,
// only results deleted more than that many days ago are removed.
func Purge(ctx context.Context, db *sql.DB, olderThanDays *int) (int, error) {
	query := "DELETE FROM results WHERE deleted_at IS NOT NULL"
	var args []any
	if olderThanDays != nil {
		cutoff := time.Now().Add(-time.Duration(*olderThanDays) * 24 * time.Hour).Unix()
		query += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// scanRecord scans a single row into a Record.
func scanRecord(row *sql.Row) (*history.Record, error) {
	var (
		r           history.Record
		primaryID   sql.NullString
		primaryName sql.NullString
		brand       sql.NullString
		answersJSON string
		resultJSON  string
		deletedAt   sql.NullInt64
	)

	err := row.Scan(
		&r.ID, &primaryID, &primaryName, &r.MatchPercentage, &brand,
		&answersJSON, &resultJSON, &r.CreatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	r.PrimaryID = primaryID.String
	r.PrimaryName = primaryName.String
	r.BrandPreference = brand.String
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Int64
	}

	if err := json.Unmarshal([]byte(answersJSON), &r.Answers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &r.Result); err != nil {
		return nil, err
	}
	return &r, nil
}

// toNullString stores empty strings as NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
