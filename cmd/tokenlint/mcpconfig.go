package main

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	mcpServerName = "tokenlint"
	mcpServersKey = "mcpServers"
)

// tokenlintServerEntry returns the MCP server config object for tokenlint.
func tokenlintServerEntry() map[string]any {
	return map[string]any{
		"command": "tokenlint",
		"args":    []any{"serve"},
	}
}

// mergeServerEntry adds a tokenlint entry under mcpServers to existing JSON
// (or a new object) and returns the merged bytes.
// Returns nil, nil if tokenlint is already configured.
func mergeServerEntry(existing []byte) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[mcpServersKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[mcpServerName]; exists {
		return nil, nil
	}

	servers[mcpServerName] = tokenlintServerEntry()
	config[mcpServersKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// addMCPEntry merges the entry into the file at path. It reports whether
// the file changed.
func addMCPEntry(path string) (bool, error) {
	var existing []byte
	if data, err := os.ReadFile(path); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing)
	if err != nil {
		return false, err
	}
	if merged == nil {
		return false, nil
	}
	return true, os.WriteFile(path, merged, 0644)
}
