// Package catalog loads question catalogs from YAML and imports them into
// the question registry.
//
// A catalog file looks like:
//
//	questions:
//	  - number: 1
//	    variant: 1
//	    text: "What is a monad?"
//	  - number: 1
//	    variant: 2
//	    text: "What is a functor?"
//
// The whole file is validated before the first question is written.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/peerexam/internal/examdb"
)

// Catalog is a parsed catalog file.
type Catalog struct {
	Questions []Entry `yaml:"questions" validate:"required,min=1,dive"`
}

// Entry is one question of the catalog.
type Entry struct {
	Number  int64  `yaml:"number" validate:"gt=0"`
	Variant int64  `yaml:"variant" validate:"gt=0"`
	Text    string `yaml:"text" validate:"required"`
}

// QuestionPutter is the part of examdb.Questions Import needs.
type QuestionPutter interface {
	Put(ctx context.Context, number, variant int64, text string) (examdb.Question, error)
}

var validate = validator.New()

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and validates a catalog. Unknown fields are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid catalog: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Validate checks field rules and rejects duplicate (number, variant) pairs.
func (c *Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	seen := make(map[examdb.QuestionKey]int, len(c.Questions))
	for i, e := range c.Questions {
		key := examdb.QuestionKey{Number: e.Number, Variant: e.Variant}
		if first, dup := seen[key]; dup {
			return fmt.Errorf("questions[%d]: number %d variant %d already defined by questions[%d]",
				i, e.Number, e.Variant, first)
		}
		seen[key] = i
	}
	return nil
}

// Import puts every entry in file order and returns the stored questions.
// Existing questions with the same key get the catalog text.
func Import(ctx context.Context, qs QuestionPutter, c *Catalog) ([]examdb.Question, error) {
	stored := make([]examdb.Question, 0, len(c.Questions))
	for i, e := range c.Questions {
		q, err := qs.Put(ctx, e.Number, e.Variant, e.Text)
		if err != nil {
			return stored, fmt.Errorf("import questions[%d]: %w", i, err)
		}
		stored = append(stored, q)
	}
	return stored, nil
}
