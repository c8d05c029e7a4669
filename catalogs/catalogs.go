// Package catalogs provides the embedded starter library written by
// tokenlint init.
package catalogs

import (
	_ "embed"

	"github.com/gnana997/tokenlint/pkg/catalog"
)

// StarterLibraryJSON is the starter library, embedded at build time.
//
//go:embed starter/library.json
var StarterLibraryJSON []byte

// StarterTokensJSON is a small saved-token list matching the starter library.
//
//go:embed starter/tokens.json
var StarterTokensJSON []byte

// Starter decodes both embedded files into one bundle.
func Starter() (*catalog.Bundle, error) {
	lib, err := catalog.LoadBytes(StarterLibraryJSON)
	if err != nil {
		return nil, err
	}
	tokens, err := catalog.LoadBytes(StarterTokensJSON)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(lib, tokens), nil
}
