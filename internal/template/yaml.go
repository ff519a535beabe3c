package template

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// fileEntry is one user-defined template in a YAML template file.
type fileEntry struct {
	Key      string `yaml:"key"`
	Template `yaml:",inline"`
}

// LoadFile merges user-defined templates from a YAML file into the store.
// User entries are added after the built-ins, so built-in resolution order
// is unchanged unless a user key shadows a built-in key.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read templates file: %w", err)
	}

	var entries []fileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse templates file: %w", err)
	}

	for i, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("templates file entry %d: missing key", i)
		}
		if len(e.Scale) == 0 {
			return fmt.Errorf("template %q: scale must not be empty", e.Key)
		}
		if len(e.Sections) == 0 {
			return fmt.Errorf("template %q: sections must not be empty", e.Key)
		}
		tmpl := e.Template
		s.Add(e.Key, &tmpl)
	}
	return nil
}
