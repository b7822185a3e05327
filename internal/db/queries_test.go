package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/errors"
	"github.com/hpungsan/solefit/internal/history"
	"github.com/hpungsan/solefit/internal/recommend"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestRecord builds a record around a small recommendation result.
func newTestRecord(id string, createdAt int64) *history.Record {
	res := &recommend.Result{
		Primary:         &catalog.Item{ID: "northline-cruise-5", Name: "Northline Cruise 5", CategoryID: catalog.CategoryDaily},
		Alternatives:    []recommend.Alternative{},
		MatchPercentage: 81,
		MatchReasons:    []string{"Cushioning rated 8/10 matches your comfort preference"},
		Reasoning:       "You care most about cushioning.",
		Scores:          catalog.ScoreVector{"cushioning": 3},
	}
	answers := []catalog.Answer{{QuestionID: "feel", OptionID: "plush"}}
	return history.New(id, answers, res, createdAt)
}

func TestInsertAndGetByID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	r := newTestRecord("01ABC123", time.Now().Unix())
	r.Result.BrandPreference = "Northline"
	r.BrandPreference = "Northline"

	if err := Insert(ctx, db, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByID(ctx, db, "01ABC123", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.PrimaryID != "northline-cruise-5" {
		t.Errorf("PrimaryID = %q, want %q", got.PrimaryID, "northline-cruise-5")
	}
	if got.PrimaryName != "Northline Cruise 5" {
		t.Errorf("PrimaryName = %q", got.PrimaryName)
	}
	if got.MatchPercentage != 81 {
		t.Errorf("MatchPercentage = %d, want 81", got.MatchPercentage)
	}
	if got.BrandPreference != "Northline" {
		t.Errorf("BrandPreference = %q, want %q", got.BrandPreference, "Northline")
	}
	if len(got.Answers) != 1 || got.Answers[0].OptionID != "plush" {
		t.Errorf("Answers = %+v", got.Answers)
	}
	if got.Result == nil || got.Result.Primary == nil || got.Result.Primary.ID != "northline-cruise-5" {
		t.Fatalf("Result not round-tripped: %+v", got.Result)
	}
	if got.Result.Scores.Get("cushioning") != 3 {
		t.Errorf("Scores[cushioning] = %v, want 3", got.Result.Scores.Get("cushioning"))
	}
	if got.DeletedAt != nil {
		t.Errorf("DeletedAt = %v, want nil", *got.DeletedAt)
	}
}

func TestInsert_EmptyPrimary(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	r := history.New("01EMPTY", nil, &recommend.Result{MatchPercentage: 60}, time.Now().Unix())
	if err := Insert(ctx, db, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByID(ctx, db, "01EMPTY", false)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PrimaryID != "" || got.Result.Primary != nil {
		t.Errorf("expected no primary, got %q / %+v", got.PrimaryID, got.Result.Primary)
	}
}

func TestInsert_DuplicateID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	r := newTestRecord("01DUP", 1)
	if err := Insert(ctx, db, r); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	err := Insert(ctx, db, r)
	if !errors.Is(err, errors.ErrInternal) {
		t.Errorf("second Insert error = %v, want INTERNAL", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetByID(context.Background(), db, "missing", false)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := Insert(ctx, db, newTestRecord("01DEL", 1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := SoftDelete(ctx, db, "01DEL"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	if _, err := GetByID(ctx, db, "01DEL", false); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID(active) error = %v, want NOT_FOUND", err)
	}

	got, err := GetByID(ctx, db, "01DEL", true)
	if err != nil {
		t.Fatalf("GetByID(includeDeleted) failed: %v", err)
	}
	if got.DeletedAt == nil {
		t.Error("DeletedAt should be set")
	}

	// Second delete is a not-found
	if err := SoftDelete(ctx, db, "01DEL"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second SoftDelete error = %v, want NOT_FOUND", err)
	}
}

func TestListAndCount(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for i, id := range []string{"01A", "01B", "01C"} {
		if err := Insert(ctx, db, newTestRecord(id, int64(100+i))); err != nil {
			t.Fatalf("Insert %s failed: %v", id, err)
		}
	}
	if err := SoftDelete(ctx, db, "01B"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	summaries, err := List(ctx, db, 10, 0, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2", len(summaries))
	}
	if summaries[0].ID != "01C" || summaries[1].ID != "01A" {
		t.Errorf("order = %s, %s; want 01C, 01A", summaries[0].ID, summaries[1].ID)
	}
	if summaries[0].PrimaryName != "Northline Cruise 5" {
		t.Errorf("PrimaryName = %q", summaries[0].PrimaryName)
	}

	all, err := List(ctx, db, 10, 0, true)
	if err != nil {
		t.Fatalf("List(includeDeleted) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}

	page, err := List(ctx, db, 1, 1, false)
	if err != nil {
		t.Fatalf("List(page) failed: %v", err)
	}
	if len(page) != 1 || page[0].ID != "01A" {
		t.Errorf("page = %+v, want [01A]", page)
	}

	active, err := Count(ctx, db, false)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	total, err := Count(ctx, db, true)
	if err != nil {
		t.Fatalf("Count(includeDeleted) failed: %v", err)
	}
	if active != 2 || total != 3 {
		t.Errorf("Count = %d/%d, want 2/3", active, total)
	}
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for _, id := range []string{"01OLD", "01NEW", "01KEEP"} {
		if err := Insert(ctx, db, newTestRecord(id, 1)); err != nil {
			t.Fatalf("Insert %s failed: %v", id, err)
		}
	}
	if err := SoftDelete(ctx, db, "01NEW"); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	// Backdate one deletion by ten days
	tenDaysAgo := time.Now().Add(-10 * 24 * time.Hour).Unix()
	if _, err := db.Exec("UPDATE results SET deleted_at = ? WHERE id = ?", tenDaysAgo, "01OLD"); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	days := 7
	n, err := Purge(ctx, db, &days)
	if err != nil {
		t.Fatalf("Purge(7) failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Purge(7) = %d, want 1", n)
	}

	n, err = Purge(ctx, db, nil)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}

	// Active results are never purged
	if _, err := GetByID(ctx, db, "01KEEP", false); err != nil {
		t.Errorf("active result purged: %v", err)
	}
}
