// Package yaml loads the example catalog from YAML. A default catalog is
// embedded in the binary; users may supply their own file.
package yaml

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/refiner"
	"gopkg.in/yaml.v3"
)

//go:embed examples.yaml
var defaultCatalog []byte

// catalog is the v1 file format.
type catalog struct {
	Version  int          `yaml:"version"`
	Examples []exampleDTO `yaml:"examples"`
}

type exampleDTO struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// Default returns the embedded example catalog.
func Default() refiner.Examples {
	ex, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("yaml: embedded catalog: %v", err))
	}
	return ex
}

// Load reads a catalog file.
func Load(path string) (refiner.Examples, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault reads path, or returns the embedded catalog when path is empty.
func LoadOrDefault(path string) (refiner.Examples, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes a catalog. Keys must be unique and every example needs a
// key and a text. A missing title defaults to the key.
func Parse(data []byte) (refiner.Examples, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if c.Version != 1 {
		return nil, fmt.Errorf("unsupported catalog version: %d", c.Version)
	}
	seen := make(map[string]bool, len(c.Examples))
	out := make(refiner.Examples, 0, len(c.Examples))
	for i, dto := range c.Examples {
		key := strings.TrimSpace(dto.Key)
		if key == "" {
			return nil, fmt.Errorf("example %d: missing key", i)
		}
		if seen[key] {
			return nil, fmt.Errorf("example %d: duplicate key %q", i, key)
		}
		seen[key] = true
		text := strings.TrimSpace(dto.Text)
		if text == "" {
			return nil, fmt.Errorf("example %q: missing text", key)
		}
		title := strings.TrimSpace(dto.Title)
		if title == "" {
			title = key
		}
		out = append(out, refiner.Example{Key: key, Title: title, Text: text})
	}
	return out, nil
}
