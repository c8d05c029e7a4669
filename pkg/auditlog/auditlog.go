// Package auditlog appends one JSONL record per audit run or tool call.
package auditlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Entry is one JSONL line.
type Entry struct {
	Ts            string         `json:"ts"`
	Source        string         `json:"source"`
	Operation     string         `json:"operation"`
	Params        map[string]any `json:"params,omitempty"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes,omitempty"`
	Nodes         int            `json:"nodes,omitempty"` // nodes with at least one finding
	Findings      int            `json:"findings"`
	ByType        map[string]int `json:"by_type,omitempty"`
	Error         *string        `json:"error"`
}

// Sources.
const (
	SourceCLI = "cli"
	SourceMCP = "mcp"
)

// Logger appends entries to a file. It is safe for concurrent use; a nil
// *Logger discards everything.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// Open opens path for appending, creating parent directories. An empty
// path returns a nil Logger.
func Open(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("auditlog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("auditlog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends entry, stamping Ts when empty. Callers ignore the error so
// that logging never changes an audit's outcome.
func (l *Logger) Write(entry Entry) error {
	if l == nil {
		return nil
	}
	if entry.Ts == "" {
		entry.Ts = Now().UTC().Format(time.RFC3339)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// SanitizeParams copies args, replacing strings longer than 64 bytes (whole
// documents, report payloads) with a "{key}_len" entry.
func SanitizeParams(args map[string]any) map[string]any {
	const shortStringMax = 64
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// ResponseBytes is the serialized size of a tool result's content.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// ErrorString returns a pointer to err's message, or nil.
func ErrorString(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
