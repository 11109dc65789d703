// Package yaml resolves CLI flag defaults from a YAML configuration file.
//
// Keys are flag names, with dashes or underscores:
//
//	endpoint: http://localhost:5005
//	timeout: 30s
//	rate_limit: 0.5
//
// Dotted flag names may also be written as nested mappings.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath returns the per-user configuration file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".newsbrief", "config.yaml")
}

// Loader is a kong.ConfigurationLoader reading YAML documents.
// An empty document resolves nothing.
func Loader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yamlv3.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding YAML configuration: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		return lookup(values, flag.Name), nil
	}
	return f, nil
}

func lookup(values map[string]any, name string) any {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if v, ok := values[key]; ok {
			return v
		}
	}

	var cur any = values
	for _, part := range strings.Split(name, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = m[part]; !ok {
			if cur, ok = m[strings.ReplaceAll(part, "-", "_")]; !ok {
				return nil
			}
		}
	}
	return cur
}
