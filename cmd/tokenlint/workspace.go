package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gnana997/tokenlint/pkg/auditlog"
	"github.com/gnana997/tokenlint/pkg/catalog"
	"github.com/gnana997/tokenlint/pkg/lint"
	"github.com/gnana997/tokenlint/pkg/parser"
	"github.com/gnana997/tokenlint/pkg/scene"
	"github.com/gnana997/tokenlint/pkg/tokensrc"
	"github.com/gnana997/tokenlint/pkg/util"
)

// workspace is the project a command runs in: its config, logger and
// audit log.
type workspace struct {
	root     string
	cfg      *ProjectConfig
	logger   *slog.Logger
	auditLog *auditlog.Logger
}

func openWorkspace(root string, stderr io.Writer, auditLogOverride string) (*workspace, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	if auditLogOverride != "" {
		cfg.AuditLog = auditLogOverride
	}

	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.LogLevel(cfg.Log.Level),
		Format: util.LogFormat(cfg.Log.Format),
		Output: stderr,
	})

	al, err := auditlog.Open(resolvePath(root, cfg.AuditLog))
	if err != nil {
		// The run still proceeds without a log.
		logger.Warn("audit log disabled", "path", cfg.AuditLog, "error", err)
	}

	return &workspace{root: root, cfg: cfg, logger: logger, auditLog: al}, nil
}

func (w *workspace) Close() error {
	return w.auditLog.Close()
}

func (w *workspace) lintOptions() lint.Options {
	return lint.Options{
		IgnoredIDs: w.cfg.IgnoreIDs,
		CacheSize:  w.cfg.CacheSize,
	}
}

// catalogFiles lists the library and token files to load. Explicit flags
// replace library discovery; configured token files are always included.
func (w *workspace) catalogFiles(libFlags, tokenFlags []string) (libs, tokens []string, err error) {
	if len(libFlags) > 0 {
		for _, p := range libFlags {
			libs = append(libs, resolvePath(w.root, p))
		}
	} else {
		excludes := w.cfg.Exclude
		if excludes == nil {
			excludes = catalog.DefaultExcludes
		}
		libs, err = catalog.Discover(w.root, w.cfg.Libraries, excludes)
		if err != nil {
			return nil, nil, err
		}
	}

	for _, p := range w.cfg.Tokens {
		tokens = append(tokens, resolvePath(w.root, p))
	}
	for _, p := range tokenFlags {
		tokens = append(tokens, resolvePath(w.root, p))
	}

	if len(libs) == 0 {
		w.logger.Warn("no library files found; every style will be reported as unapproved")
	}
	return libs, tokens, nil
}

// loadBundle decodes library files and token files. Token files written
// as TS/JS modules are evaluated with tree-sitter; everything else goes
// through the catalog loader.
func (w *workspace) loadBundle(libs, tokens []string) (*catalog.Bundle, error) {
	bundle, err := catalog.LoadFiles(libs)
	if err != nil {
		return nil, err
	}

	var loader *tokensrc.Loader
	for _, path := range tokens {
		if !parser.IsSource(path) {
			b, err := catalog.LoadFile(path)
			if err != nil {
				return nil, err
			}
			bundle = catalog.Merge(bundle, &catalog.Bundle{Tokens: b.Tokens})
			continue
		}
		if loader == nil {
			parsers := parser.NewManager(w.logger, 0)
			defer parsers.Close()
			loader = tokensrc.NewLoader(parsers, w.logger)
		}
		toks, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		bundle = catalog.Merge(bundle, &catalog.Bundle{Tokens: toks})
	}

	for _, problem := range bundle.Validate() {
		w.logger.Warn("catalog problem", "error", problem)
	}
	w.logger.Debug("catalog loaded",
		"library_files", len(libs),
		"token_files", len(tokens),
		"libraries", len(bundle.Libraries),
		"tokens", len(bundle.Tokens))
	return bundle, nil
}

// readDocument decodes a scene export through a read-only mapping.
func readDocument(path string, logger *slog.Logger) (*scene.Document, error) {
	var doc *scene.Document
	err := util.ReadMapped(path, logger, func(data []byte) error {
		var err error
		doc, err = scene.DecodeDocument(data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", path, err)
	}
	return doc, nil
}

// auditResult is the JSON report of one audit.
type auditResult struct {
	Document string         `json:"document,omitempty"`
	Path     string         `json:"path"`
	Findings []lint.Finding `json:"findings"`
	Summary  lint.Summary   `json:"summary"`
}

// audit runs one audit of the document at path and records it in the
// audit log.
func (w *workspace) audit(ctx context.Context, path string, bundle *catalog.Bundle, ids []string) (*auditResult, error) {
	start := auditlog.Now()
	res, err := w.runAudit(ctx, path, bundle, ids)

	entry := auditlog.Entry{
		Ts:         start.UTC().Format(time.RFC3339),
		Source:     auditlog.SourceCLI,
		Operation:  "audit",
		Params:     map[string]any{"document": path, "libraries": len(bundle.Libraries), "tokens": len(bundle.Tokens)},
		DurationMs: time.Since(start).Milliseconds(),
		Error:      auditlog.ErrorString(err),
	}
	if len(ids) > 0 {
		entry.Params["node_ids"] = ids
	}
	if res != nil {
		entry.Findings = res.Summary.Total
		entry.Nodes = len(res.Summary.Nodes)
		entry.ByType = make(map[string]int, len(res.Summary.ByType))
		for t, n := range res.Summary.ByType {
			entry.ByType[string(t)] = n
		}
	}
	_ = w.auditLog.Write(entry)

	return res, err
}

func (w *workspace) runAudit(ctx context.Context, path string, bundle *catalog.Bundle, ids []string) (*auditResult, error) {
	doc, err := readDocument(path, w.logger)
	if err != nil {
		return nil, err
	}
	findings, err := lint.AuditDocument(ctx, doc, ids, bundle, w.logger, w.lintOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", err, ids)
	}
	return &auditResult{
		Document: doc.Name,
		Path:     path,
		Findings: findings,
		Summary:  lint.Summarize(findings),
	}, nil
}
