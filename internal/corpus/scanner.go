// Package corpus discovers source files eligible for indexing.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	kberrors "github.com/promptops/kbindex/internal/errors"
)

// DefaultMaxFileSize is the per-file size cap when none is configured.
const DefaultMaxFileSize = 2 * 1024 * 1024

// File is a corpus file selected for ingestion.
type File struct {
	// Path is the absolute path on disk.
	Path string
	// RelPath is the path relative to the corpus root, slash-separated.
	// Chunk identity and source attribution use RelPath.
	RelPath string
	// Size is the file size in bytes.
	Size int64
}

// ScanOptions controls corpus discovery.
type ScanOptions struct {
	// Extensions is the allow-list of file extensions (with leading dot).
	Extensions []string
	// Exclude lists base names that are never ingested.
	Exclude []string
	// MaxFileSize caps file size in bytes; 0 means DefaultMaxFileSize.
	MaxFileSize int64
}

// Scanner walks a corpus root and returns eligible files in a
// deterministic order.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a Scanner. A nil logger uses slog.Default.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan walks root and returns eligible files sorted by RelPath.
// Files failing eligibility checks are skipped with a warning, never
// an error; a missing or non-directory root is an error.
func (s *Scanner) Scan(ctx context.Context, root string, opts ScanOptions) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return nil, kberrors.New(kberrors.ErrCodeCorpusNotFound,
			fmt.Sprintf("corpus root is not a directory: %s", absRoot), err)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	extAllowed := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extAllowed[strings.ToLower(ext)] = true
	}
	excluded := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = true
	}

	var files []File
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if d.IsDir() {
			if path != absRoot && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			switch name {
			case "node_modules", "vendor", "__pycache__":
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || excluded[name] {
			return nil
		}
		if len(extAllowed) > 0 && !extAllowed[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping file, stat failed", "path", path, "error", err)
			return nil
		}
		if fi.Size() > maxSize {
			s.logger.Warn("skipping file, exceeds size cap",
				"path", path, "size", fi.Size(), "max", maxSize)
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		files = append(files, File{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Size:    fi.Size(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// WalkDir order is already lexical per directory, but sorting by
	// RelPath makes the contract explicit and OS-independent.
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	s.logger.Debug("corpus scan complete", "root", absRoot, "files", len(files))
	return files, nil
}

// ReadText reads a corpus file and verifies it is valid UTF-8 text.
// Binary files yield ErrCodeFileNotText.
func ReadText(f File) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", kberrors.New(kberrors.ErrCodeFileUnreadable,
			fmt.Sprintf("cannot read %s", f.RelPath), err)
	}
	if !utf8.Valid(data) || containsNUL(data) {
		return "", kberrors.New(kberrors.ErrCodeFileNotText,
			fmt.Sprintf("%s is not valid UTF-8 text", f.RelPath), nil)
	}
	return string(data), nil
}

func containsNUL(data []byte) bool {
	for _, b := range data {
		if b == 0 {
			return true
		}
	}
	return false
}
