// Package catalog loads lesson content from YAML and seeds it into the store.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog is the seed document.
type Catalog struct {
	DemoUser *DemoUser `yaml:"demo_user"`
	Lessons  []Lesson  `yaml:"lessons"`
}

type DemoUser struct {
	ID       int64  `yaml:"id"`
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
}

type Lesson struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Order       int       `yaml:"order"`
	Inactive    bool      `yaml:"inactive"`
	Problems    []Problem `yaml:"problems"`
}

type Problem struct {
	Question string   `yaml:"question"`
	Type     string   `yaml:"type"`
	XP       int      `yaml:"xp"`
	Options  []Option `yaml:"options"`
}

type Option struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file; an empty path means the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every problem in the document at once.
func (c *Catalog) Validate() error {
	var errs []error
	titles := map[string]bool{}

	for i, l := range c.Lessons {
		where := fmt.Sprintf("lessons[%d]", i)
		title := strings.TrimSpace(l.Title)
		if title == "" {
			errs = append(errs, fmt.Errorf("%s: title is required", where))
		} else if titles[title] {
			errs = append(errs, fmt.Errorf("%s: duplicate title %q", where, title))
		}
		titles[title] = true

		for j, p := range l.Problems {
			where := fmt.Sprintf("%s.problems[%d]", where, j)
			if strings.TrimSpace(p.Question) == "" {
				errs = append(errs, fmt.Errorf("%s: question is required", where))
			}
			if p.XP < 0 {
				errs = append(errs, fmt.Errorf("%s: xp cannot be negative", where))
			}
			if len(p.Options) < 2 {
				errs = append(errs, fmt.Errorf("%s: needs at least 2 options", where))
			}
			correct := 0
			for _, o := range p.Options {
				if o.Correct {
					correct++
				}
			}
			if correct != 1 {
				errs = append(errs, fmt.Errorf("%s: needs exactly one correct option, has %d", where, correct))
			}
		}
	}
	return errors.Join(errs...)
}
