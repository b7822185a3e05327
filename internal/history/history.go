// Package history holds the saved form of a recommendation.
package history

import (
	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/recommend"
)

// Record is one saved recommendation.
type Record struct {
	// ID is a ULID.
	ID string `json:"id"`

	// PrimaryID and PrimaryName are empty when the catalog was empty.
	PrimaryID   string `json:"primary_id,omitempty"`
	PrimaryName string `json:"primary_name,omitempty"`

	MatchPercentage int    `json:"match_percentage"`
	BrandPreference string `json:"brand_preference,omitempty"`

	// Answers are stored as submitted, including any the engine skipped.
	Answers []catalog.Answer `json:"answers"`

	Result *recommend.Result `json:"result"`

	// CreatedAt is a Unix timestamp.
	CreatedAt int64 `json:"created_at"`

	// DeletedAt is set once the record is soft-deleted.
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// Summary is the list view of a Record.
type Summary struct {
	ID              string `json:"id"`
	PrimaryID       string `json:"primary_id,omitempty"`
	PrimaryName     string `json:"primary_name,omitempty"`
	MatchPercentage int    `json:"match_percentage"`
	BrandPreference string `json:"brand_preference,omitempty"`
	CreatedAt       int64  `json:"created_at"`
	DeletedAt       *int64 `json:"deleted_at,omitempty"`
}

// New builds a record for a computed result.
func New(id string, answers []catalog.Answer, res *recommend.Result, now int64) *Record {
	r := &Record{
		ID:              id,
		MatchPercentage: res.MatchPercentage,
		BrandPreference: res.BrandPreference,
		Answers:         answers,
		Result:          res,
		CreatedAt:       now,
	}
	if r.Answers == nil {
		r.Answers = []catalog.Answer{}
	}
	if res.Primary != nil {
		r.PrimaryID = res.Primary.ID
		r.PrimaryName = res.Primary.Name
	}
	return r
}

// Summary returns the list view of r.
func (r *Record) Summary() Summary {
	return Summary{
		ID:              r.ID,
		PrimaryID:       r.PrimaryID,
		PrimaryName:     r.PrimaryName,
		MatchPercentage: r.MatchPercentage,
		BrandPreference: r.BrandPreference,
		CreatedAt:       r.CreatedAt,
		DeletedAt:       r.DeletedAt,
	}
}

// Headline is the short title shown for a record.
func (r *Record) Headline() string {
	if r.PrimaryName == "" {
		return "No recommendation available"
	}
	return "Your best match is the " + r.PrimaryName
}
