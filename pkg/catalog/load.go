package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultPatterns are the glob patterns used to discover library and token
// files when none are configured.
var DefaultPatterns = []string{
	"**/*.library.json",
	"**/*.library.yaml",
	"**/*.library.yml",
	"**/tokens.json",
	"**/*.tokens.json",
	"**/tokens.yaml",
	"**/*.tokens.yaml",
}

// DefaultExcludes are skipped during discovery.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
}

// LoadFile reads a library or token file, choosing the decoder by extension.
func LoadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadBytes(data)
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadYAML decodes a YAML document with the same shapes LoadBytes accepts.
func LoadYAML(data []byte) (*Bundle, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	converted, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert catalog YAML: %w", err)
	}
	return LoadBytes(converted)
}

// LoadBytes decodes JSON in any of the accepted shapes:
//   - a bundle {"libraries": [...], "tokens": [...]}
//   - a single library object
//   - a list of libraries
//   - a list of saved tokens ({name, value} records)
func LoadBytes(data []byte) (*Bundle, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Bundle{}, nil
	}

	if data[0] == '[' {
		return decodeList(data)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	_, hasLibraries := probe["libraries"]
	_, hasTokens := probe["tokens"]
	if hasLibraries || hasTokens {
		var b Bundle
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("failed to parse catalog bundle: %w", err)
		}
		return &b, nil
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to parse library: %w", err)
	}
	return &Bundle{Libraries: []Library{lib}}, nil
}

func decodeList(data []byte) (*Bundle, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalog list: %w", err)
	}
	if len(items) == 0 {
		return &Bundle{}, nil
	}

	// Token lists are recognised by their value field.
	if _, ok := items[0]["value"]; ok {
		var tokens []SavedToken
		if err := json.Unmarshal(data, &tokens); err != nil {
			return nil, fmt.Errorf("failed to parse token list: %w", err)
		}
		return &Bundle{Tokens: tokens}, nil
	}

	var libs []Library
	if err := json.Unmarshal(data, &libs); err != nil {
		return nil, fmt.Errorf("failed to parse library list: %w", err)
	}
	return &Bundle{Libraries: libs}, nil
}

// Discover expands glob patterns under root and returns matching files
// sorted and de-duplicated. Paths are absolute.
func Discover(root string, patterns, excludes []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	if excludes == nil {
		excludes = DefaultExcludes
	}

	fsys := os.DirFS(absRoot)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if excluded(rel, excludes) || seen[rel] {
				continue
			}
			info, err := fs.Stat(fsys, rel)
			if err != nil || info.IsDir() {
				continue
			}
			seen[rel] = true
			files = append(files, filepath.Join(absRoot, filepath.FromSlash(rel)))
		}
	}

	sort.Strings(files)
	return files, nil
}

func excluded(rel string, excludes []string) bool {
	for _, pattern := range excludes {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// LoadFiles loads and merges every file in order.
func LoadFiles(paths []string) (*Bundle, error) {
	bundles := make([]*Bundle, 0, len(paths))
	for _, p := range paths {
		b, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return Merge(bundles...), nil
}
