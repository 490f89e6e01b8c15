package chunk

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
)

// languageFor maps a file path to a tree-sitter grammar, or nil when
// the language is not parseable (keyword extraction then falls back to
// the regex path).
func languageFor(relPath string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".go":
		return golang.GetLanguage()
	case ".js":
		return javascript.GetLanguage()
	case ".py":
		return python.GetLanguage()
	default:
		return nil
	}
}

// declarationNodeTypes are AST node types whose names are worth
// surfacing as keywords.
var declarationNodeTypes = map[string]bool{
	"function_declaration": true,
	"method_declaration":   true,
	"type_declaration":     true,
	"type_spec":            true,
	"function_definition":  true,
	"class_definition":     true,
	"class_declaration":    true,
	"method_definition":    true,
	"lexical_declaration":  true,
	"variable_declarator":  true,
}
