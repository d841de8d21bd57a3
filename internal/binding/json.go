package binding

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// LoadJSON parses one configuration layer from JSON data. The document
// shape and descriptor values mirror the TOML loader:
//
//	{"mappings": {"n": {"q": "close", "<C-x>": false,
//	                    "<C-s>": {"command": ":w<CR>"}}}}
func LoadJSON(data []byte) (*Layer, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrBadDescriptor)
	}

	l := NewLayer()
	var err error
	gjson.GetBytes(data, "mappings").ForEach(func(mode, keys gjson.Result) bool {
		if !keys.IsObject() {
			err = fmt.Errorf("mappings.%s: %w: want an object of keys", mode.String(), ErrBadDescriptor)
			return false
		}
		keys.ForEach(func(key, desc gjson.Result) bool {
			var act Action
			act, err = actionFromJSON(desc)
			if err == nil {
				err = l.Set(mode.String(), key.String(), act)
			}
			if err != nil {
				err = fmt.Errorf("mappings.%s.%q: %w", mode.String(), key.String(), err)
				return false
			}
			return true
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// LoadJSONFile parses one configuration layer from a JSON file. A missing
// file yields a nil layer that Merge skips.
func LoadJSONFile(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading mappings file %s: %w", path, err)
	}
	l, err := LoadJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// actionFromJSON maps one JSON descriptor value onto an action variant.
func actionFromJSON(r gjson.Result) (Action, error) {
	switch {
	case r.Type == gjson.String:
		if r.Str == "" {
			return Action{}, fmt.Errorf("%w: empty action name", ErrBadDescriptor)
		}
		return Named(r.Str), nil

	case r.Type == gjson.False:
		return Disabled, nil

	case r.Type == gjson.True:
		return Action{}, fmt.Errorf("%w: true (only false disables a key)", ErrBadDescriptor)

	case r.IsObject():
		cmd := r.Get("command")
		if cmd.Type != gjson.String || len(r.Map()) != 1 {
			return Action{}, fmt.Errorf("%w: want exactly {\"command\": \"...\"}", ErrBadDescriptor)
		}
		return Command(cmd.Str), nil

	default:
		return Action{}, fmt.Errorf("%w: unsupported value %s", ErrBadDescriptor, r.Raw)
	}
}

// ExportJSON renders an effective table as indented JSON in the loader's
// document shape. Callables have no textual form and export as typed
// placeholders.
func ExportJSON(t *Table) ([]byte, error) {
	out := []byte(`{"mappings":{}}`)
	var err error

	for _, e := range t.Entries() {
		path := "mappings." + escapeJSONPath(e.ID.Mode) + "." + escapeJSONPath(e.ID.Chord.String())

		var value any
		switch e.Action.Kind {
		case KindNamed:
			value = e.Action.Text
		case KindCommand:
			value = map[string]any{"command": e.Action.Text}
		case KindDisabled:
			value = false
		case KindFunc:
			value = map[string]any{"type": "callable"}
		case KindSeq:
			value = map[string]any{"type": "sequence"}
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidAction, e.ID)
		}

		out, err = sjson.SetBytes(out, path, value)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", e.ID, err)
		}
	}

	return pretty.Pretty(out), nil
}

// escapeJSONPath protects characters that are part of the path syntax.
func escapeJSONPath(s string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`)
	return r.Replace(s)
}
