package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadBytes_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		libraries int
		tokens    int
	}{
		{name: "bundle", input: `{"libraries": [{"id": "a"}], "tokens": [{"name": "t", "value": {"r": 1}}]}`, libraries: 1, tokens: 1},
		{name: "single library", input: `{"id": "a", "fills": [{"id": "S:1"}]}`, libraries: 1},
		{name: "library list", input: `[{"id": "a"}, {"id": "b"}]`, libraries: 2},
		{name: "token list", input: `[{"name": "red", "value": {"r": 1, "g": 0, "b": 0}}]`, tokens: 1},
		{name: "empty list", input: `[]`},
		{name: "empty input", input: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := LoadBytes([]byte(tt.input))
			require.NoError(t, err)
			assert.Len(t, b.Libraries, tt.libraries)
			assert.Len(t, b.Tokens, tt.tokens)
		})
	}
}

func TestLoadBytes_Invalid(t *testing.T) {
	_, err := LoadBytes([]byte(`{"libraries": `))
	assert.Error(t, err)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "core.library.yaml", `
id: lib-core
name: Core
fills:
  - id: "S:primary"
    name: Brand/Primary
    paint:
      type: SOLID
      color: {r: 1, g: 0, b: 0}
radius:
  - id: "V:md"
    name: radius/md
    value: 8
`)

	b, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, b.Libraries, 1)
	lib := b.Libraries[0]
	assert.Equal(t, "Core", lib.Name)
	require.Len(t, lib.Fills, 1)
	require.NotNil(t, lib.Fills[0].Paint)
	assert.Equal(t, 1.0, lib.Fills[0].Paint.Color.R)
	assert.Equal(t, 8.0, lib.Radius[0].Value)
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "core.toml", `id = "x"`)
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "design/core.library.json", `{"id": "core"}`)
	writeFile(t, dir, "design/tokens.json", `[]`)
	writeFile(t, dir, "tokens.yaml", `[]`)
	writeFile(t, dir, "node_modules/pkg/x.library.json", `{"id": "vendored"}`)
	writeFile(t, dir, "design/readme.md", `#`)

	files, err := Discover(dir, nil, nil)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		assert.NotContains(t, f, "node_modules")
		assert.True(t, filepath.IsAbs(f))
	}
}

func TestDiscover_CustomPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/brand.json", `{}`)
	writeFile(t, dir, "b/brand.json", `{}`)

	files, err := Discover(dir, []string{"a/*.json", "**/brand.json"}, []string{"b/**"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "a", "brand.json"), files[0])
}

func TestLoadFiles_Merges(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.library.json", `{"id": "a", "fills": [{"id": "S:1"}]}`)
	b := writeFile(t, dir, "tokens.json", `[{"name": "red", "value": {"r": 1}}]`)

	bundle, err := LoadFiles([]string{a, b})
	require.NoError(t, err)
	assert.Len(t, bundle.Libraries, 1)
	assert.Len(t, bundle.Tokens, 1)
}
