package catalog

import "strings"

// Category is the closed set of shoe categories.
type Category string

const (
	CategoryDaily        Category = "daily"
	CategorySuperTrainer Category = "super-trainer"
	CategoryRacing       Category = "racing"
	CategoryTrail        Category = "trail"
)

// Categories lists all known categories in display order.
func Categories() []Category {
	return []Category{CategoryDaily, CategorySuperTrainer, CategoryRacing, CategoryTrail}
}

// ParseCategory returns the category for s (case and whitespace insensitive).
func ParseCategory(s string) (Category, bool) {
	norm := Category(Normalize(s))
	for _, c := range Categories() {
		if c == norm {
			return c, true
		}
	}
	return "", false
}

// Specs holds an item's numeric attributes. The four ratings use a 1..10
// scale; Weight is in grams.
type Specs struct {
	Cushioning     int `json:"cushioning" validate:"min=1,max=10"`
	Responsiveness int `json:"responsiveness" validate:"min=1,max=10"`
	Stability      int `json:"stability" validate:"min=1,max=10"`
	Durability     int `json:"durability" validate:"min=1,max=10"`
	Weight         int `json:"weight" validate:"gt=0"`
}

// Item is one recommendable shoe. Items are loaded once and never mutated.
type Item struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Brand        string   `json:"brand" validate:"required"`
	CategoryID   Category `json:"category_id" validate:"required,oneof=daily super-trainer racing trail"`
	Description  string   `json:"description"`
	Specs        Specs    `json:"specs"`
	Technologies []string `json:"technologies,omitempty"`
}

// HasCarbonPlate reports whether any technology tag describes a carbon plate.
func (it *Item) HasCarbonPlate() bool {
	for _, tech := range it.Technologies {
		norm := Normalize(strings.NewReplacer("-", " ", "_", " ").Replace(tech))
		if strings.Contains(norm, "carbon") && strings.Contains(norm, "plate") {
			return true
		}
		if strings.Contains(norm, "카본") {
			return true
		}
	}
	return false
}

// Catalog is the immutable set of items, in file order.
type Catalog struct {
	Items []Item `json:"items" validate:"dive"`
}

// Item returns the item with the given id.
func (c *Catalog) Item(id string) (*Item, bool) {
	id = strings.TrimSpace(id)
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// Filter returns items matching the optional category and brand, preserving
// catalog order. Brand comparison is normalized.
func (c *Catalog) Filter(category Category, brand string) []Item {
	brandNorm := Normalize(brand)
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if category != "" && it.CategoryID != category {
			continue
		}
		if brandNorm != "" && Normalize(it.Brand) != brandNorm {
			continue
		}
		items = append(items, it)
	}
	return items
}

// Brands returns the distinct brand names in catalog order.
func (c *Catalog) Brands() []string {
	seen := make(map[string]bool)
	var brands []string
	for _, it := range c.Items {
		if !seen[it.Brand] {
			seen[it.Brand] = true
			brands = append(brands, it.Brand)
		}
	}
	return brands
}

// Option is one selectable answer with its partial ScoreVector contribution.
type Option struct {
	ID     string             `json:"id" validate:"required"`
	Label  string             `json:"label" validate:"required"`
	Scores map[string]float64 `json:"scores" validate:"dive,keys,oneof=cushioning lightweight responsiveness stability daily super-trainer racing trail,endkeys,gte=0"`
}

// Question is a single-select quiz question.
type Question struct {
	ID      string   `json:"id" validate:"required"`
	Text    string   `json:"text" validate:"required"`
	Options []Option `json:"options" validate:"min=1,dive"`
}

// QuestionBank is the static set of quiz questions.
type QuestionBank struct {
	Questions []Question `json:"questions" validate:"dive"`
}

// Option resolves an answer to its option. Returns false if either the
// question or the option is unknown.
func (b *QuestionBank) Option(questionID, optionID string) (Option, bool) {
	for _, q := range b.Questions {
		if q.ID != questionID {
			continue
		}
		for _, opt := range q.Options {
			if opt.ID == optionID {
				return opt, true
			}
		}
		return Option{}, false
	}
	return Option{}, false
}

// Answer pairs a question with the selected option.
type Answer struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}
