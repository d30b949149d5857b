package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jward/harmonizer/internal/coord"
)

// LoadOverrides reads a word->dimension file. The format follows the
// extension: .toml, .yaml/.yml or .json. Two shapes are accepted, either at
// the top level or under a "vocabulary" key:
//
//	fetch_all = "wisdom"            # word -> dimension
//	power = ["nuke", "obliterate"]  # dimension -> words
func LoadOverrides(path string) (map[string]coord.Dimension, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("vocab: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("vocab: parse %s: %w", path, err)
	}

	out, err := ParseOverrides(raw)
	if err != nil {
		return nil, fmt.Errorf("vocab: %s: %w", path, err)
	}
	return out, nil
}

// ParseOverrides converts decoded configuration into overrides. See
// LoadOverrides for the accepted shapes.
func ParseOverrides(raw map[string]any) (map[string]coord.Dimension, error) {
	if nested, ok := raw["vocabulary"]; ok {
		m, ok := asMap(nested)
		if !ok {
			return nil, fmt.Errorf("vocabulary must be a table, got %T", nested)
		}
		raw = m
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]coord.Dimension)
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			d, err := coord.ParseDimension(v)
			if err != nil {
				return nil, fmt.Errorf("word %q: %w", k, err)
			}
			out[k] = d
		case []any:
			d, err := coord.ParseDimension(k)
			if err != nil {
				return nil, fmt.Errorf("word list %q: %w", k, err)
			}
			for _, item := range v {
				w, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("word list %q: entry %v is not a string", k, item)
				}
				out[w] = d
			}
		case []string:
			d, err := coord.ParseDimension(k)
			if err != nil {
				return nil, fmt.Errorf("word list %q: %w", k, err)
			}
			for _, w := range v {
				out[w] = d
			}
		default:
			return nil, fmt.Errorf("word %q: expected a dimension name or a word list, got %T", k, v)
		}
	}
	return out, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
