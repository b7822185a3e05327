// Package ops holds the operations shared by the CLI, MCP and web surfaces.
// Each takes a typed input struct and returns a typed output or a
// *errors.SolefitError.
package ops

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination describes a page of a listing.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// newID returns a time-ordered ULID for a saved result.
func newID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func boolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
