package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hpungsan/solefit/internal/db"
	"github.com/hpungsan/solefit/internal/errors"
	"github.com/hpungsan/solefit/internal/history"
)

// FetchInput selects one saved result.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
}

// FetchOutput is a saved result plus its display headline.
type FetchOutput struct {
	history.Record
	Headline string `json:"headline"`
}

// ListInput pages through saved results. Limit defaults to DefaultListLimit
// and is capped at MaxListLimit.
type ListInput struct {
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// ListOutput is one page of result summaries, newest first.
type ListOutput struct {
	Items      []history.Summary `json:"items"`
	Pagination Pagination        `json:"pagination"`
	Sort       string            `json:"sort"`
}

// DeleteInput selects the result to soft-delete.
type DeleteInput struct {
	ID string
}

// DeleteOutput confirms a soft delete.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// MaxPurgeDays bounds older_than_days so the cutoff stays representable.
const MaxPurgeDays = 36500

// PurgeInput limits a purge to rows soft-deleted more than OlderThanDays
// days ago. Nil purges every soft-deleted row.
type PurgeInput struct {
	OlderThanDays *int
}

// PurgeOutput reports how many rows were removed for good.
type PurgeOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// Fetch loads a saved result. Soft-deleted rows are NOT_FOUND unless
// IncludeDeleted is set.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}
	rec, err := db.GetByID(ctx, database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	return &FetchOutput{Record: *rec, Headline: rec.Headline()}, nil
}

// List returns a page of result summaries.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	items, err := db.List(ctx, database, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	total, err := db.Count(ctx, database, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []history.Summary{}
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}

func clampPage(limit, offset int) (int, int) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return limit, max(offset, 0)
}

// Delete soft-deletes a saved result.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}
	if err := db.SoftDelete(ctx, database, id); err != nil {
		return nil, err
	}
	return &DeleteOutput{Deleted: true, ID: id}, nil
}

// Purge hard-deletes soft-deleted results.
func Purge(ctx context.Context, database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	if days := input.OlderThanDays; days != nil {
		if *days < 0 {
			return nil, errors.NewInvalidRequest("older_than_days must not be negative")
		}
		if *days > MaxPurgeDays {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("older_than_days must be at most %d", MaxPurgeDays))
		}
	}
	n, err := db.Purge(ctx, database, input.OlderThanDays)
	if err != nil {
		return nil, err
	}
	return &PurgeOutput{Purged: n, Message: purgeMessage(n, input.OlderThanDays)}, nil
}

func purgeMessage(n int, olderThanDays *int) string {
	if n == 0 {
		return "nothing to purge"
	}
	noun := "results"
	if n == 1 {
		noun = "result"
	}
	msg := fmt.Sprintf("purged %d %s", n, noun)
	if olderThanDays != nil {
		msg += fmt.Sprintf(" deleted over %d days ago", *olderThanDays)
	}
	return msg
}
