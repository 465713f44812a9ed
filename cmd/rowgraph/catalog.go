package main

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// catalog lists the queries the demo command runs.
type catalog struct {
	Queries []catalogQuery `yaml:"queries"`
}

type catalogQuery struct {
	Name   string   `yaml:"name"`
	Target string   `yaml:"target"`
	SQL    string   `yaml:"sql"`
	Args   []any    `yaml:"args,omitempty"`
	Keys   []string `yaml:"keys,omitempty"`
}

// loadCatalog reads the catalog at path, or the built-in one when path is empty.
func loadCatalog(path string) (*catalog, error) {
	data := defaultCatalog

	if path != "" {
		var err error

		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
	}

	return parseCatalog(data)
}

func parseCatalog(data []byte) (*catalog, error) {
	var c catalog

	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	for i, q := range c.Queries {
		if q.Name == "" {
			return nil, fmt.Errorf("query %d has no name", i)
		}

		if q.SQL == "" {
			return nil, fmt.Errorf("query %q has no sql", q.Name)
		}

		if _, err := lookupTarget(q.Target); err != nil {
			return nil, fmt.Errorf("query %q: %w", q.Name, err)
		}
	}

	return &c, nil
}
