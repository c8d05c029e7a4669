package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testDocument = `{
  "name": "Checkout",
  "nodes": [
    {"id": "1:1", "name": "Card", "type": "FRAME", "layoutMode": "HORIZONTAL", "itemSpacing": 16,
     "children": [
       {"id": "1:2", "name": "Total", "type": "TEXT", "characters": "Total",
        "fontName": {"family": "Arial", "style": "Regular"}, "fontSize": 14}
     ]},
    {"id": "2:1", "name": "Swatch", "type": "RECTANGLE",
     "fills": [{"type": "SOLID", "color": {"r": 1, "g": 0, "b": 0}}], "fillStyleId": "S1"},
    {"id": "3:1", "name": "Button", "type": "INSTANCE", "mainComponentId": "C:gone"}
  ]
}`

const testLibrary = `{
  "id": "lib:core",
  "name": "Core",
  "fills": [{"id": "S:brand", "name": "Brand/Primary"}],
  "text": [{"id": "T:body", "name": "Body"}],
  "radius": [{"id": "V:r8", "name": "radius/md", "value": 8}],
  "gaps": [{"id": "V:g16", "name": "gap/md", "value": 16}]
}`

// clearEnv unsets the overrides for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envLogLevel, envLogFormat, envAuditLog, envCacheSize} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type testCLI struct {
	*cli
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestCLI(t *testing.T, root string) *testCLI {
	t.Helper()
	clearEnv(t)
	// Keep test output quiet unless a test overrides it.
	t.Setenv(envLogLevel, "error")
	out, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	return &testCLI{
		cli: &cli{
			ctx:    context.Background(),
			root:   root,
			stdin:  bytes.NewReader(nil),
			stdout: out,
			stderr: errBuf,
		},
		out: out,
		err: errBuf,
	}
}
