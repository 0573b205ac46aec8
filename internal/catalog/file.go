package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type catalogFile struct {
	Tools []ToolDefinition `toml:"tools"`
}

// LoadFile reads extra tool definitions from a TOML file. Fields without a
// type default to single-line text.
func LoadFile(path string) ([]ToolDefinition, error) {
	var cf catalogFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("decode tools file: %w", err)
	}
	for i := range cf.Tools {
		for j := range cf.Tools[i].Fields {
			if cf.Tools[i].Fields[j].Kind == "" {
				cf.Tools[i].Fields[j].Kind = KindText
			}
		}
		if cf.Tools[i].ButtonText == "" {
			cf.Tools[i].ButtonText = "Generate"
		}
	}
	return cf.Tools, nil
}

// Load returns the built-in tools plus those declared in path. An empty path
// yields the default registry.
func Load(path string) (*Registry, error) {
	defs := DefaultTools()
	if path != "" {
		extra, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, extra...)
	}
	return New(defs...)
}
