package trust

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrInvalidGroup indicates a group with an empty or duplicate name.
var ErrInvalidGroup = errors.New("trust: invalid group")

// Group is a named set of node labels whose trust is averaged together.
type Group struct {
	Name  string `toml:"name"`
	Nodes []int  `toml:"nodes"`
}

type groupsFile struct {
	Groups []Group `toml:"group"`
}

// LoadGroups reads a TOML file of [[group]] tables.
func LoadGroups(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading groups file: %w", err)
	}
	return ParseGroups(data)
}

// ParseGroups decodes [[group]] tables and checks that every group has a
// unique, non-empty name.
func ParseGroups(data []byte) ([]Group, error) {
	var f groupsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing groups file: %w", err)
	}

	seen := make(map[string]bool, len(f.Groups))
	for i, g := range f.Groups {
		if g.Name == "" {
			return nil, fmt.Errorf("%w: group %d has no name", ErrInvalidGroup, i+1)
		}
		if seen[g.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidGroup, g.Name)
		}
		seen[g.Name] = true
	}
	return f.Groups, nil
}
