package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/errors"
)

func TestQuestions(t *testing.T) {
	_, bank := defaultData(t)

	out := Questions(bank)
	require.Equal(t, len(bank.Questions), out.Count)
	require.Equal(t, "goal", out.Questions[0].ID)

	empty := Questions(&catalog.QuestionBank{})
	require.NotNil(t, empty.Questions)
	require.Zero(t, empty.Count)
}

func TestCatalog(t *testing.T) {
	cat, _ := defaultData(t)

	tests := []struct {
		name  string
		input CatalogInput
		check func(t *testing.T, out *CatalogOutput)
	}{
		{
			name:  "no filter",
			input: CatalogInput{},
			check: func(t *testing.T, out *CatalogOutput) {
				require.Equal(t, len(cat.Items), out.Count)
			},
		},
		{
			name:  "by category",
			input: CatalogInput{Category: " Racing "},
			check: func(t *testing.T, out *CatalogOutput) {
				require.Equal(t, 3, out.Count)
				for _, it := range out.Items {
					require.Equal(t, catalog.CategoryRacing, it.CategoryID)
				}
			},
		},
		{
			name:  "by brand",
			input: CatalogInput{Brand: "kairo"},
			check: func(t *testing.T, out *CatalogOutput) {
				require.NotZero(t, out.Count)
				for _, it := range out.Items {
					require.Equal(t, "Kairo", it.Brand)
				}
			},
		},
		{
			name:  "category and brand",
			input: CatalogInput{Category: "daily", Brand: "Apex"},
			check: func(t *testing.T, out *CatalogOutput) {
				require.Equal(t, 1, out.Count)
				require.Equal(t, "apex-guardian-12", out.Items[0].ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Catalog(cat, tt.input)
			require.NoError(t, err)
			require.Len(t, out.Brands, 4)
			tt.check(t, out)
		})
	}
}

func TestCatalog_InvalidCategory(t *testing.T) {
	cat, _ := defaultData(t)

	_, err := Catalog(cat, CatalogInput{Category: "sprint"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestCatalogItem(t *testing.T) {
	cat, _ := defaultData(t)

	item, err := CatalogItem(cat, " stride-vapor-elite ")
	require.NoError(t, err)
	require.Equal(t, "stride-vapor-elite", item.ID)
	require.True(t, item.HasCarbonPlate())

	_, err = CatalogItem(cat, "missing")
	require.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = CatalogItem(cat, "")
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
