package ops

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/db"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func defaultData(t *testing.T) (*catalog.Catalog, *catalog.QuestionBank) {
	t.Helper()
	cat, bank, err := catalog.Default()
	require.NoError(t, err)
	return cat, bank
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func TestNewID(t *testing.T) {
	a, err := newID()
	require.NoError(t, err)
	b, err := newID()
	require.NoError(t, err)

	require.Len(t, a, 26)
	require.NotEqual(t, a, b)
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, DefaultListLimit, 0},
		{-5, -3, DefaultListLimit, 0},
		{50, 10, 50, 10},
		{MaxListLimit + 1, 0, MaxListLimit, 0},
	}
	for _, tt := range tests {
		limit, offset := clampPage(tt.limit, tt.offset)
		require.Equal(t, tt.wantLimit, limit)
		require.Equal(t, tt.wantOffset, offset)
	}
}
