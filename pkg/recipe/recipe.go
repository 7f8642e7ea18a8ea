// Package recipe loads cleaning recipes: an input, an output and an
// ordered list of steps, each a single-key object naming the step. Recipes
// may be written as JSON, YAML or TOML.
package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/tidykit/pkg/io/csvio"
	"github.com/wdm0006/tidykit/pkg/io/dataio"
)

var (
	ErrUnknownStep = errors.New("unknown step")
	ErrInvalid     = errors.New("invalid recipe")
)

type Input struct {
	Path       string   `json:"path" yaml:"path" toml:"path" validate:"required"`
	Type       string   `json:"type" yaml:"type" toml:"type" validate:"omitempty,oneof=csv tsv jsonl parquet xlsx"`
	HasHeader  *bool    `json:"has_header" yaml:"has_header" toml:"has_header"`
	Delimiter  string   `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"delimiter"`
	Strict     bool     `json:"strict" yaml:"strict" toml:"strict"`
	Sheet      string   `json:"sheet" yaml:"sheet" toml:"sheet"`
	NullValues []string `json:"null_values" yaml:"null_values" toml:"null_values"`
}

type Output struct {
	Path      string `json:"path" yaml:"path" toml:"path" validate:"required"`
	Type      string `json:"type" yaml:"type" toml:"type" validate:"omitempty,oneof=csv tsv jsonl parquet xlsx"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"delimiter"`
	BOM       bool   `json:"bom" yaml:"bom" toml:"bom"`
	Sheet     string `json:"sheet" yaml:"sheet" toml:"sheet"`
}

// Recipe is a whole cleaning job.
type Recipe struct {
	Input  Input  `json:"input" yaml:"input" toml:"input"`
	Output Output `json:"output" yaml:"output" toml:"output"`
	Steps  []Step `json:"steps" yaml:"steps" toml:"steps" validate:"dive,len=1"`
}

// Step is one single-key object, e.g. {"impute_mean": {"column": "age"}}.
type Step map[string]any

// Kind returns the step name, or "" when the object does not hold exactly
// one key.
func (s Step) Kind() string {
	if len(s) != 1 {
		return ""
	}
	for k := range s {
		return k
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// one character, or the two-character escape \t
	_ = v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == `\t` || utf8.RuneCountInString(s) <= 1
	})
	return v
}

// Load reads a recipe file, choosing the decoder by extension.
func Load(path string) (*Recipe, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Parse decodes a recipe in the given format ("json", "yaml", "yml" or
// "toml") and validates it.
func Parse(b []byte, format string) (*Recipe, error) {
	var r Recipe
	var err error
	switch format {
	case "json", "":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&r)
	case "yaml", "yml":
		err = yaml.Unmarshal(b, &r)
	case "toml":
		err = toml.Unmarshal(b, &r)
	default:
		return nil, fmt.Errorf("%w: unsupported recipe format %q", ErrInvalid, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the recipe's fields and decodes every step once.
func (r *Recipe) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i, s := range r.Steps {
		if _, err := decodeStep(s); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func delimiter(s string) rune {
	if s == "" {
		return 0
	}
	if s == `\t` {
		return '\t'
	}
	return []rune(s)[0]
}

// LoadOptions maps the input section to reader options.
func (r *Recipe) LoadOptions() dataio.Options {
	header := true
	if r.Input.HasHeader != nil {
		header = *r.Input.HasHeader
	}
	format, _ := dataio.ParseFormat(r.Input.Type)
	return dataio.Options{
		Format:   format,
		NoHeader: !header,
		Sheet:    r.Input.Sheet,
		CSV: csvio.ReaderOptions{
			Delimiter:  delimiter(r.Input.Delimiter),
			Strict:     r.Input.Strict,
			NullValues: r.Input.NullValues,
		},
	}
}

// SaveOptions maps the output section to writer options.
func (r *Recipe) SaveOptions() dataio.Options {
	format, _ := dataio.ParseFormat(r.Output.Type)
	return dataio.Options{
		Format:    format,
		Delimiter: delimiter(r.Output.Delimiter),
		BOM:       r.Output.BOM,
		Sheet:     r.Output.Sheet,
	}
}
