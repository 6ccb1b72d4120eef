package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogSchema is the top-level structure of a catalog import file.
// Files may be YAML or JSON; JSON documents parse as YAML.
type CatalogSchema struct {
	Defaults  *DefaultsImport  `yaml:"defaults,omitempty"`
	Content   []ContentImport  `yaml:"content"`
	Practices []PracticeImport `yaml:"practices"`
}

// DefaultsImport fills fields left empty on individual items.
type DefaultsImport struct {
	Approach    string `yaml:"approach,omitempty"`
	DurationSec *int   `yaml:"duration_sec,omitempty"`
}

// ContentImport defines a library entry. An empty ID is derived from the
// title so that re-importing the same file updates rather than duplicates.
type ContentImport struct {
	ID              string   `yaml:"id,omitempty"`
	Title           string   `yaml:"title"`
	Type            string   `yaml:"type,omitempty"`
	Approach        string   `yaml:"approach,omitempty"`
	DurationSec     *int     `yaml:"duration_sec,omitempty"`
	Tags            []string `yaml:"tags,omitempty"`
	ImmediateRelief bool     `yaml:"immediate_relief,omitempty"`
	Effectiveness   *float64 `yaml:"effectiveness,omitempty"`
	Popularity      int      `yaml:"popularity,omitempty"`
	Description     string   `yaml:"description,omitempty"`
}

type PracticeImport struct {
	ID            string   `yaml:"id,omitempty"`
	Title         string   `yaml:"title"`
	Approach      string   `yaml:"approach,omitempty"`
	DurationSec   *int     `yaml:"duration_sec,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
	Effectiveness *float64 `yaml:"effectiveness,omitempty"`
	Instructions  string   `yaml:"instructions,omitempty"`
}

// LoadCatalogSchema reads and parses a catalog import file.
func LoadCatalogSchema(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalogSchema(data)
}

func ParseCatalogSchema(data []byte) (*CatalogSchema, error) {
	var schema CatalogSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &schema, nil
}
