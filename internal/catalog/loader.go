// Package catalog loads questionnaire reference data (measurements, questions
// and answer options) from YAML files.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"skill-radar/internal/domain"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

var validate = validator.New()

// LoadFile reads and validates a catalog YAML file.
func LoadFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document and validates it.
func Parse(data []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := Validate(c); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

// Validate checks required fields, non-negative values and id uniqueness.
// Answers referencing measurements outside the list are allowed; see
// UnknownMeasurements.
func Validate(c domain.Catalog) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	measurements := make(map[string]struct{}, len(c.Measurements))
	for _, m := range c.Measurements {
		if _, dup := measurements[m]; dup {
			return fmt.Errorf("%w: duplicate measurement %q", ErrInvalidCatalog, m)
		}
		measurements[m] = struct{}{}
	}

	questions := make(map[string]struct{}, len(c.Questions))
	answers := make(map[string]struct{})
	for _, q := range c.Questions {
		if _, dup := questions[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, q.ID)
		}
		questions[q.ID] = struct{}{}
		for _, a := range q.Answers {
			if _, dup := answers[a.ID]; dup {
				return fmt.Errorf("%w: duplicate answer id %q", ErrInvalidCatalog, a.ID)
			}
			answers[a.ID] = struct{}{}
		}
	}
	return nil
}

// UnknownMeasurements lists measurements referenced by answers but missing
// from the catalog's measurement list. Those answers never score.
func UnknownMeasurements(c domain.Catalog) []string {
	known := make(map[string]struct{}, len(c.Measurements))
	for _, m := range c.Measurements {
		known[m] = struct{}{}
	}
	unknown := map[string]struct{}{}
	for _, q := range c.Questions {
		for _, a := range q.Answers {
			if _, ok := known[a.Measurement]; !ok {
				unknown[a.Measurement] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(unknown))
	for m := range unknown {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
