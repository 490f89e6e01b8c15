package chunk

import (
	"path/filepath"
	"strings"
)

// markdownExts and codeExts route files to the right chunking strategy.
var (
	markdownExts = map[string]bool{".md": true, ".markdown": true}
	codeExts     = map[string]bool{".js": true, ".ts": true, ".go": true, ".py": true, ".json": true}
)

// ClassifyKind infers a chunk kind from the source path. Path segment
// hints win over extension so curated example and recipe directories
// keep their identity regardless of file type.
func ClassifyKind(relPath string) Kind {
	s := strings.ToLower(relPath)
	switch {
	case strings.Contains(s, "example"):
		return KindExample
	case strings.Contains(s, "recipe"):
		return KindRecipe
	case strings.Contains(s, "api"):
		return KindEndpoint
	case codeExts[filepath.Ext(s)]:
		return KindCode
	case markdownExts[filepath.Ext(s)]:
		return KindRule
	default:
		return KindText
	}
}

// IsMarkdown reports whether a path gets header-based chunking.
func IsMarkdown(relPath string) bool {
	return markdownExts[strings.ToLower(filepath.Ext(relPath))]
}

// IsCode reports whether a path gets whole-file code chunking.
func IsCode(relPath string) bool {
	return codeExts[strings.ToLower(filepath.Ext(relPath))]
}
