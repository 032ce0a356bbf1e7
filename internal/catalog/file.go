package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of a catalog file:
//
//	categories:
//	  - name: core
//	    items:
//	      - id: git
//	        name: Git
type fileFormat struct {
	Categories []Category `yaml:"categories"`
}

// LoadFile reads and parses a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a YAML catalog. Items without a name use their ID.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid catalog yaml: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("catalog declares no categories")
	}
	seen := make(map[string]bool, len(f.Categories))
	for ci := range f.Categories {
		cat := &f.Categories[ci]
		if cat.Name == "" {
			return nil, fmt.Errorf("category %d has no name", ci)
		}
		if seen[cat.Name] {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
		for ii := range cat.Items {
			item := &cat.Items[ii]
			if item.ID == "" {
				return nil, fmt.Errorf("category %q: item %d has no id", cat.Name, ii)
			}
			if item.Name == "" {
				item.Name = item.ID
			}
		}
	}
	return New(f.Categories...), nil
}
