// Package parser wraps tree-sitter with per-grammar parser pools so token
// modules can be parsed concurrently.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/tokenlint/pkg/util"
)

// Manager owns one parser pool per grammar. Callers own the returned trees
// and must Close them; the Manager itself must be closed when done.
type Manager struct {
	mu       sync.RWMutex
	pools    map[Language]*parserPool
	poolSize int
	parses   int
	logger   *slog.Logger
}

// Stats reports parser usage.
type Stats struct {
	ParsersCreated int
	Parses         int
}

// NewManager creates a Manager. poolSize <= 0 uses util.GetOptimalPoolSize().
func NewManager(logger *slog.Logger, poolSize int) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:    make(map[Language]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the grammar for lang. A tree with syntax errors
// is still returned; callers decide how much of it to trust.
func (m *Manager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	pool, err := m.pool(lang)
	if err != nil {
		return nil, err
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s parser: %w", lang, err)
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	m.mu.Lock()
	m.parses++
	m.mu.Unlock()

	if tree == nil {
		return nil, fmt.Errorf("%s parser returned no tree", lang)
	}
	if tree.RootNode().HasError() {
		m.logger.Debug("parse tree contains errors", "language", lang.String())
	}
	return tree, nil
}

// ParseFile detects the grammar from path and parses source.
func (m *Manager) ParseFile(path string, source []byte) (*ts.Tree, error) {
	lang := DetectLanguage(path)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
	return m.Parse(source, lang)
}

// Stats returns parser usage counters.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{Parses: m.parses}
	for _, p := range m.pools {
		s.ParsersCreated += p.size()
	}
	return s
}

// Close releases every pooled parser. The Manager cannot be used afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pools {
		p.close()
	}
	m.pools = make(map[Language]*parserPool)
	return nil
}

func (m *Manager) pool(lang Language) (*parserPool, error) {
	m.mu.RLock()
	p, ok := m.pools[lang]
	m.mu.RUnlock()
	if ok {
		return p, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok = m.pools[lang]; ok {
		return p, nil
	}
	grammar, err := grammarFor(lang)
	if err != nil {
		return nil, err
	}
	p = newParserPool(lang, grammar, m.poolSize, m.logger)
	m.pools[lang] = p
	return p, nil
}

func grammarFor(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case LanguageTSX:
		return ts_typescript.LanguageTSX(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}
