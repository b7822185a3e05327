package ops

import (
	"strings"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/errors"
)

// QuestionsOutput contains the quiz question bank.
type QuestionsOutput struct {
	Questions []catalog.Question `json:"questions"`
	Count     int                `json:"count"`
}

// Questions lists the quiz questions in order.
func Questions(bank *catalog.QuestionBank) *QuestionsOutput {
	questions := bank.Questions
	if questions == nil {
		questions = []catalog.Question{}
	}
	return &QuestionsOutput{Questions: questions, Count: len(questions)}
}

// CatalogInput contains parameters for the Catalog operation.
type CatalogInput struct {
	Category string // optional: daily, super-trainer, racing, trail
	Brand    string // optional, case-insensitive
}

// CatalogOutput contains the filtered catalog.
type CatalogOutput struct {
	Items  []catalog.Item `json:"items"`
	Count  int            `json:"count"`
	Brands []string       `json:"brands"`
}

// Catalog lists catalog items, optionally filtered by category and brand.
func Catalog(cat *catalog.Catalog, input CatalogInput) (*CatalogOutput, error) {
	var category catalog.Category
	if strings.TrimSpace(input.Category) != "" {
		c, ok := catalog.ParseCategory(input.Category)
		if !ok {
			return nil, errors.NewInvalidRequest("category must be one of: daily, super-trainer, racing, trail")
		}
		category = c
	}

	items := cat.Filter(category, input.Brand)
	brands := cat.Brands()
	if brands == nil {
		brands = []string{}
	}

	return &CatalogOutput{Items: items, Count: len(items), Brands: brands}, nil
}

// CatalogItem returns a single item by id.
func CatalogItem(cat *catalog.Catalog, id string) (*catalog.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	item, ok := cat.Item(id)
	if !ok {
		return nil, errors.NewNotFound("item", id)
	}
	out := *item
	return &out, nil
}
