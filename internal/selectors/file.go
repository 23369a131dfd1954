package selectors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// fileTable is the on-disk shape of a selector override:
//
//	version: "2025.01"
//	sets:
//	  name: ["h1.new-title", "h1"]
type fileTable struct {
	Version string              `yaml:"version" json:"version"`
	Sets    map[string][]string `yaml:"sets" json:"sets"`
}

// LoadFile reads a YAML or JSON override and merges it over base. Sets the
// file does not mention keep base's expressions.
func LoadFile(path string, base Table) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	var ft fileTable
	switch ext := filepath.Ext(path); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ft); err != nil {
			return base, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &ft); err != nil {
			return base, fmt.Errorf("parse yaml: %w", err)
		}
	}
	known := make(map[Field]bool, len(Fields))
	for _, f := range Fields {
		known[f] = true
	}
	sets := make(map[Field]Set, len(ft.Sets))
	for name, exprs := range ft.Sets {
		f := Field(name)
		if !known[f] {
			return base, fmt.Errorf("unknown selector field %q", name)
		}
		sets[f] = Set(exprs)
	}
	return base.Merge(NewTable(ft.Version, sets)), nil
}
