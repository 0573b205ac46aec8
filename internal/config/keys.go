package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrUnknownKey is returned for a dotted key that does not name a Config field.
var ErrUnknownKey = errors.New("unknown config key")

// Kind is the type of value stored under a key.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindBool   Kind = "bool"
)

// Key is one leaf of Config addressed by its dotted JSON path, such as
// "llm.api_key".
type Key struct {
	Name   string
	Kind   Kind
	Secret bool
}

var (
	schema      = collectKeys(reflect.TypeOf(Config{}), "")
	schemaIndex = indexKeys(schema)
)

// collectKeys walks the json-tagged fields of t. Fields tagged secret:"true"
// are masked on output.
func collectKeys(t reflect.Type, prefix string) []Key {
	var keys []Key
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		k := Key{Name: name, Kind: KindString, Secret: f.Tag.Get("secret") == "true"}
		switch f.Type.Kind() {
		case reflect.Struct:
			keys = append(keys, collectKeys(f.Type, name)...)
			continue
		case reflect.Int, reflect.Int32, reflect.Int64:
			k.Kind = KindInt
		case reflect.Bool:
			k.Kind = KindBool
		}
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int { return strings.Compare(a.Name, b.Name) })
	return keys
}

func indexKeys(keys []Key) map[string]Key {
	m := make(map[string]Key, len(keys))
	for _, k := range keys {
		m[k.Name] = k
	}
	return m
}

// Keys returns every config key sorted by name.
func Keys() []Key {
	return slices.Clone(schema)
}

// KeyNames returns the names of every config key sorted.
func KeyNames() []string {
	names := make([]string, len(schema))
	for i, k := range schema {
		names[i] = k.Name
	}
	return names
}

// LookupKey returns the key called name, or an ErrUnknownKey error that
// suggests the closest known key.
func LookupKey(name string) (Key, error) {
	if k, ok := schemaIndex[name]; ok {
		return k, nil
	}
	if matches := fuzzy.Find(name, KeyNames()); len(matches) > 0 {
		return Key{}, fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownKey, name, matches[0].Str)
	}
	return Key{}, fmt.Errorf("%w: %s", ErrUnknownKey, name)
}

// Parse converts a value given on the command line to the key's type.
func (k Key) Parse(raw string) (any, error) {
	switch k.Kind {
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s expects a whole number, got %q", k.Name, raw)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", k.Name, raw)
		}
		return b, nil
	}
	return raw, nil
}

// Display renders v for terminal output. Secrets keep only their last four
// characters, and short ones are hidden entirely.
func (k Key) Display(v any) string {
	if v == nil {
		return ""
	}
	s := fmt.Sprint(v)
	if !k.Secret || s == "" {
		return s
	}
	if len(s) <= 8 {
		return "***"
	}
	return "***" + s[len(s)-4:]
}

// lookupPath reads the dotted name from a nested JSON object.
func lookupPath(m map[string]any, name string) (any, bool) {
	parts := strings.Split(name, ".")
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			return nil, false
		}
		m = child
	}
	v, ok := m[parts[len(parts)-1]]
	return v, ok
}

// setPath writes v under the dotted name, creating intermediate objects.
func setPath(m map[string]any, name string, v any) {
	parts := strings.Split(name, ".")
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[p] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = v
}
