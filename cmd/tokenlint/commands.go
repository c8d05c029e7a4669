package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gnana997/tokenlint/catalogs"
	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/lint"
	mcpserver "github.com/gnana997/tokenlint/pkg/mcp"
	"github.com/gnana997/tokenlint/pkg/util"
	"github.com/gnana997/tokenlint/pkg/watch"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitFindings = 2
)

// cli carries the process surroundings so commands can run in tests.
type cli struct {
	ctx    context.Context
	root   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) fail(format string, args ...any) int {
	fmt.Fprintf(c.stderr, "tokenlint: "+format+"\n", args...)
	return exitError
}

var (
	auditValueFlags = []string{"library", "tokens", "format", "node", "audit-log"}
	auditBoolFlags  = []string{"fail-on-findings"}
)

// runAudit implements `tokenlint audit <document>`.
func (c *cli) runAudit(args []string) int {
	a, err := parseArgs(args, auditValueFlags, auditBoolFlags)
	if err != nil {
		return c.fail("%v", err)
	}
	if len(a.positional) != 1 {
		return c.fail("audit takes exactly one document path")
	}
	format := a.value("format", "json")
	if format != "json" && format != "text" {
		return c.fail("unknown format %q (want json or text)", format)
	}

	ws, err := openWorkspace(c.root, c.stderr, a.value("audit-log", ""))
	if err != nil {
		return c.fail("%v", err)
	}
	defer ws.Close()

	libs, tokens, err := ws.catalogFiles(a.list("library"), a.list("tokens"))
	if err != nil {
		return c.fail("%v", err)
	}
	bundle, err := ws.loadBundle(libs, tokens)
	if err != nil {
		return c.fail("%v", err)
	}

	res, err := ws.audit(c.ctx, resolvePath(c.root, a.positional[0]), bundle, a.list("node"))
	if err != nil {
		return c.fail("%v", err)
	}
	if err := c.printAudit(format, res); err != nil {
		return c.fail("%v", err)
	}

	if a.bools["fail-on-findings"] && res.Summary.Total > 0 {
		return exitFindings
	}
	return exitOK
}

func (c *cli) printAudit(format string, res *auditResult) error {
	if format == "text" {
		title := res.Document
		if title == "" {
			title = filepath.Base(res.Path)
		}
		printReportText(c.stdout, title, res.Findings, res.Summary)
		return nil
	}
	return writeJSON(c.stdout, res)
}

// runReport implements `tokenlint report <findings.json>`: loose finding
// records, as written by other tools or older runs, are normalized and
// summarized. "-" reads stdin.
func (c *cli) runReport(args []string) int {
	a, err := parseArgs(args, []string{"format"}, []string{"fail-on-findings"})
	if err != nil {
		return c.fail("%v", err)
	}
	if len(a.positional) != 1 {
		return c.fail("report takes exactly one findings file")
	}
	format := a.value("format", "json")
	if format != "json" && format != "text" {
		return c.fail("unknown format %q (want json or text)", format)
	}

	logger := util.NewLogger(util.LoggerConfig{Output: c.stderr})
	var records []map[string]any
	decode := func(data []byte) error {
		records, err = decodeRecords(data)
		return err
	}
	if path := a.positional[0]; path == "-" {
		data, readErr := io.ReadAll(c.stdin)
		if readErr != nil {
			return c.fail("failed to read stdin: %v", readErr)
		}
		err = decode(data)
	} else {
		err = util.ReadMapped(resolvePath(c.root, path), logger, decode)
	}
	if err != nil {
		return c.fail("%v", err)
	}

	findings := lint.NormalizeRecords(records)
	summary := lint.Summarize(findings)
	if format == "text" {
		printReportText(c.stdout, "Report", findings, summary)
	} else if err := writeJSON(c.stdout, struct {
		Findings []lint.Finding `json:"findings"`
		Summary  lint.Summary   `json:"summary"`
	}{findings, summary}); err != nil {
		return c.fail("%v", err)
	}

	if a.bools["fail-on-findings"] && summary.Total > 0 {
		return exitFindings
	}
	return exitOK
}

// decodeRecords accepts a bare array of records or an audit report with a
// "findings" array.
func decodeRecords(data []byte) ([]map[string]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("invalid findings array: %w", err)
		}
		return records, nil
	}
	var report struct {
		Findings []map[string]any `json:"findings"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("invalid findings report: %w", err)
	}
	if report.Findings == nil {
		return nil, errors.New(`findings report has no "findings" array`)
	}
	return report.Findings, nil
}

// runServe implements `tokenlint serve`: the MCP stdio server over the
// project's libraries.
func (c *cli) runServe(args []string) int {
	a, err := parseArgs(args, []string{"library", "tokens", "audit-log"}, nil)
	if err != nil {
		return c.fail("%v", err)
	}

	ws, err := openWorkspace(c.root, c.stderr, a.value("audit-log", ""))
	if err != nil {
		return c.fail("%v", err)
	}
	defer ws.Close()

	libs, tokens, err := ws.catalogFiles(a.list("library"), a.list("tokens"))
	if err != nil {
		return c.fail("%v", err)
	}
	bundle, err := ws.loadBundle(libs, tokens)
	if err != nil {
		return c.fail("%v", err)
	}

	srv := mcpserver.NewServer(bundle, mcpserver.Options{
		Logger:   ws.logger,
		AuditLog: ws.auditLog,
		Lint:     ws.lintOptions(),
	})
	ws.logger.Info("mcp server starting", "libraries", len(bundle.Libraries), "tokens", len(bundle.Tokens))
	if err := srv.ServeStdio(); err != nil {
		return c.fail("server error: %v", err)
	}
	return exitOK
}

// runWatch implements `tokenlint watch <document>`: one audit now, then
// one per batch of changes to the document, libraries or token files.
func (c *cli) runWatch(args []string) int {
	a, err := parseArgs(args, []string{"library", "tokens", "format", "node", "audit-log", "debounce"}, nil)
	if err != nil {
		return c.fail("%v", err)
	}
	if len(a.positional) != 1 {
		return c.fail("watch takes exactly one document path")
	}
	format := a.value("format", "text")
	if format != "json" && format != "text" {
		return c.fail("unknown format %q (want json or text)", format)
	}
	opts := watch.Options{}
	if d := a.value("debounce", ""); d != "" {
		if opts.Debounce, err = time.ParseDuration(d); err != nil {
			return c.fail("invalid --debounce: %v", err)
		}
	}

	ws, err := openWorkspace(c.root, c.stderr, a.value("audit-log", ""))
	if err != nil {
		return c.fail("%v", err)
	}
	defer ws.Close()

	libs, tokens, err := ws.catalogFiles(a.list("library"), a.list("tokens"))
	if err != nil {
		return c.fail("%v", err)
	}
	bundle, err := ws.loadBundle(libs, tokens)
	if err != nil {
		return c.fail("%v", err)
	}
	doc := resolvePath(c.root, a.positional[0])
	ids := a.list("node")

	catalogFiles := make(map[string]bool, len(libs)+len(tokens))
	for _, p := range append(append([]string{}, libs...), tokens...) {
		if abs, err := filepath.Abs(p); err == nil {
			catalogFiles[abs] = true
		}
	}

	var mu sync.Mutex
	rerun := func(changed []string) {
		mu.Lock()
		defer mu.Unlock()

		for _, p := range changed {
			if !catalogFiles[p] {
				continue
			}
			reloaded, err := ws.loadBundle(libs, tokens)
			if err != nil {
				ws.logger.Error("catalog reload failed; keeping previous catalog", "error", err)
			} else {
				bundle = reloaded
			}
			break
		}

		res, err := ws.audit(c.ctx, doc, bundle, ids)
		if err != nil {
			ws.logger.Error("audit failed", "document", doc, "error", err)
			return
		}
		if err := c.printAudit(format, res); err != nil {
			ws.logger.Error("failed to write report", "error", err)
		}
	}

	rerun(nil)

	files := append([]string{doc}, libs...)
	files = append(files, tokens...)
	w, err := watch.New(files, rerun, opts, ws.logger)
	if err != nil {
		return c.fail("%v", err)
	}
	if err := w.Start(c.ctx); err != nil {
		return c.fail("%v", err)
	}
	<-w.Done()
	_ = w.Stop()
	return exitOK
}

// runInit implements `tokenlint init`: a config file and the starter
// library under .tokenlint/, plus an MCP entry in .mcp.json with --mcp.
func (c *cli) runInit(args []string) int {
	a, err := parseArgs(args, nil, []string{"mcp"})
	if err != nil {
		return c.fail("%v", err)
	}

	cfg := defaultConfig()
	cfg.Libraries = []string{filepath.Join(configDir, "*.library.json")}
	cfg.Tokens = []string{filepath.Join(configDir, "tokens.json")}
	cfg.Exclude = catalog.DefaultExcludes
	cfg.AuditLog = filepath.Join(configDir, "audit.jsonl")

	path, err := writeProjectConfig(c.root, cfg)
	if err != nil {
		return c.fail("%v", err)
	}
	fmt.Fprintf(c.stdout, "  + %s\n", path)

	starter := []struct {
		name string
		data []byte
	}{
		{"starter.library.json", catalogs.StarterLibraryJSON},
		{"tokens.json", catalogs.StarterTokensJSON},
	}
	for _, f := range starter {
		p := filepath.Join(c.root, configDir, f.name)
		if _, err := os.Stat(p); err == nil {
			fmt.Fprintf(c.stdout, "  = %s (exists)\n", p)
			continue
		}
		if err := os.WriteFile(p, f.data, 0644); err != nil {
			return c.fail("%v", err)
		}
		fmt.Fprintf(c.stdout, "  + %s\n", p)
	}

	if a.bools["mcp"] {
		mcpPath := filepath.Join(c.root, ".mcp.json")
		added, err := addMCPEntry(mcpPath)
		if err != nil {
			return c.fail("%s: %v", mcpPath, err)
		}
		if added {
			fmt.Fprintf(c.stdout, "  + %s (tokenlint server)\n", mcpPath)
		} else {
			fmt.Fprintf(c.stdout, "  = %s (already configured)\n", mcpPath)
		}
	}
	return exitOK
}
