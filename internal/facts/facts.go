// Package facts decodes fact documents: the numeric and name-list
// contributions to a metrics tree, written by external producers.
package facts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/jmetrics/domain"
)

// ErrUnsupportedExtension is returned for files that are not fact documents
var ErrUnsupportedExtension = errors.New("facts: unsupported file extension")

// IsFactFile reports whether a path has a fact document extension
func IsFactFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// LoadFile reads a fact document. ".json" files are decoded as JSON and
// ".yaml"/".yml" files as YAML.
func LoadFile(path string) (*domain.Facts, error) {
	if !IsFactFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fact file %s: %w", path, err)
	}

	facts, err := Decode(bytes.NewReader(data), strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode fact file %s: %w", path, err)
	}
	facts.Source = path
	return facts, nil
}

// Decode reads one fact document from r
func Decode(r io.Reader, isJSON bool) (*domain.Facts, error) {
	facts := &domain.Facts{}

	if isJSON {
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(facts); err != nil {
			return nil, err
		}
	} else {
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(facts); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	if err := Validate(facts); err != nil {
		return nil, err
	}
	return facts, nil
}

// Validate checks that every class and method is named. Groups may be
// unnamed: "" is the default package.
func Validate(facts *domain.Facts) error {
	for i, c := range facts.Classes {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("class #%d has no name", i+1)
		}
		for j, m := range c.Methods {
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("class %s: method #%d has no name", c.Name, j+1)
			}
		}
	}
	return nil
}
