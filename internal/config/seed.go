package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LevelSeed is the on-disk list of levels created at startup.
type LevelSeed struct {
	Levels []struct {
		Name string `yaml:"name"`
	} `yaml:"levels"`
}

// LoadLevelSeed reads a YAML level list and returns the distinct names in
// file order. An empty path yields no names.
func LoadLevelSeed(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level seed %s: %w", path, err)
	}

	var seed LevelSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse level seed %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(seed.Levels))
	names := make([]string, 0, len(seed.Levels))
	for i, level := range seed.Levels {
		name := strings.TrimSpace(level.Name)
		if name == "" {
			return nil, fmt.Errorf("level seed %s: entry %d has no name", path, i)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
