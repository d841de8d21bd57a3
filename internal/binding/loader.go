package binding

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// mappingsDoc is the on-disk shape shared by the TOML and JSON loaders:
// a "mappings" table of mode -> key -> descriptor.
type mappingsDoc struct {
	Mappings map[string]map[string]any `toml:"mappings"`
}

// LoadTOML parses one configuration layer from TOML data.
//
// Descriptor shapes, per key:
//
//	"action-name"              named action
//	false                      disable sentinel
//	{ command = ":close<CR>" } literal command text
func LoadTOML(data []byte) (*Layer, error) {
	var doc mappingsDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse mappings: %w", err)
	}
	return layerFromRaw(doc.Mappings)
}

// LoadTOMLFile parses one configuration layer from a TOML file. A missing
// file is not an error; it yields a nil layer that Merge skips.
func LoadTOMLFile(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading mappings file %s: %w", path, err)
	}
	l, err := LoadTOML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// layerFromRaw converts decoded descriptor values into a layer. Modes and
// keys are visited in sorted order so the layer is deterministic.
func layerFromRaw(raw map[string]map[string]any) (*Layer, error) {
	l := NewLayer()

	modes := make([]string, 0, len(raw))
	for mode := range raw {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	for _, mode := range modes {
		keys := make([]string, 0, len(raw[mode]))
		for key := range raw[mode] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			act, err := actionFromDescriptor(raw[mode][key])
			if err != nil {
				return nil, fmt.Errorf("mappings.%s.%q: %w", mode, key, err)
			}
			if err := l.Set(mode, key, act); err != nil {
				return nil, fmt.Errorf("mappings.%s.%q: %w", mode, key, err)
			}
		}
	}
	return l, nil
}

// actionFromDescriptor maps a decoded config value onto an action variant.
func actionFromDescriptor(v any) (Action, error) {
	switch d := v.(type) {
	case string:
		if d == "" {
			return Action{}, fmt.Errorf("%w: empty action name", ErrBadDescriptor)
		}
		return Named(d), nil

	case bool:
		if d {
			return Action{}, fmt.Errorf("%w: true (only false disables a key)", ErrBadDescriptor)
		}
		return Disabled, nil

	case map[string]any:
		cmd, ok := d["command"].(string)
		if !ok || len(d) != 1 {
			return Action{}, fmt.Errorf("%w: want exactly {command = \"...\"}", ErrBadDescriptor)
		}
		return Command(cmd), nil

	default:
		return Action{}, fmt.Errorf("%w: unsupported value type %T", ErrBadDescriptor, v)
	}
}
