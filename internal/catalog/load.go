package catalog

import (
	"embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/hpungsan/solefit/internal/errors"
)

//go:embed data/*.json
var dataFS embed.FS

var (
	validate     = validator.New(validator.WithRequiredStructEnabled())
	defaultOnce  sync.Once
	defaultItems *Catalog
	defaultBank  *QuestionBank
	defaultErr   error
)

// Default returns the embedded catalog and question bank. They are parsed
// once per process and shared; callers must not mutate them.
func Default() (*Catalog, *QuestionBank, error) {
	defaultOnce.Do(func() {
		defaultItems, defaultBank, defaultErr = LoadFiles("", "")
	})
	return defaultItems, defaultBank, defaultErr
}

// LoadFiles loads and validates a catalog and question bank. An empty path
// selects the embedded data file for that half.
func LoadFiles(itemsPath, questionsPath string) (*Catalog, *QuestionBank, error) {
	itemsData, err := readData(itemsPath, "data/shoes.json")
	if err != nil {
		return nil, nil, err
	}
	questionsData, err := readData(questionsPath, "data/questions.json")
	if err != nil {
		return nil, nil, err
	}

	cat, err := ParseCatalog(itemsData)
	if err != nil {
		return nil, nil, err
	}
	bank, err := ParseQuestionBank(questionsData)
	if err != nil {
		return nil, nil, err
	}
	return cat, bank, nil
}

func readData(path, embedded string) ([]byte, error) {
	if path == "" {
		data, err := dataFS.ReadFile(embedded)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("read %s: %w", path, err))
	}
	return data, nil
}

// ParseCatalog decodes and validates catalog JSON ({"items": [...]}).
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, errors.NewCatalogInvalid("catalog", []string{err.Error()})
	}
	if problems := ValidateCatalog(&cat); len(problems) > 0 {
		return nil, errors.NewCatalogInvalid("catalog", problems)
	}
	return &cat, nil
}

// ParseQuestionBank decodes and validates question bank JSON ({"questions": [...]}).
func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var bank QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, errors.NewCatalogInvalid("question bank", []string{err.Error()})
	}
	if problems := ValidateQuestionBank(&bank); len(problems) > 0 {
		return nil, errors.NewCatalogInvalid("question bank", problems)
	}
	return &bank, nil
}

// ValidateCatalog returns a list of problems; empty means valid.
func ValidateCatalog(cat *Catalog) []string {
	problems := structProblems(cat)

	seen := make(map[string]bool, len(cat.Items))
	for _, it := range cat.Items {
		if it.ID == "" {
			continue
		}
		if seen[it.ID] {
			problems = append(problems, fmt.Sprintf("duplicate item id: %s", it.ID))
		}
		seen[it.ID] = true
	}
	return problems
}

// ValidateQuestionBank returns a list of problems; empty means valid.
func ValidateQuestionBank(bank *QuestionBank) []string {
	problems := structProblems(bank)

	seenQ := make(map[string]bool, len(bank.Questions))
	for _, q := range bank.Questions {
		if seenQ[q.ID] {
			problems = append(problems, fmt.Sprintf("duplicate question id: %s", q.ID))
		}
		seenQ[q.ID] = true

		seenO := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if seenO[opt.ID] {
				problems = append(problems, fmt.Sprintf("duplicate option id: %s/%s", q.ID, opt.ID))
			}
			seenO[opt.ID] = true
		}
	}
	return problems
}

// structProblems runs tag validation and flattens the result into messages.
func structProblems(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return []string{err.Error()}
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s: failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			problems = append(problems, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return problems
}
