package parser

import (
	"path/filepath"
	"strings"
)

// Language is a grammar token modules can be written in.
type Language int

const (
	LanguageUnknown Language = iota
	LanguageTypeScript
	LanguageTSX
	LanguageJavaScript
)

func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageTSX:
		return "tsx"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage picks a grammar from the file extension.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// IsSource reports whether path is a script the parser can read.
func IsSource(path string) bool {
	return DetectLanguage(path) != LanguageUnknown
}
