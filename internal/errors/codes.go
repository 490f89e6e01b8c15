// Package errors provides structured error handling for kbindex.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Corpus ingestion errors
//   - 3XX: Snapshot errors
//   - 4XX: Cache errors
//   - 5XX: Embedding/network errors
//   - 6XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIngest indicates corpus ingestion errors.
	CategoryIngest Category = "INGEST"
	// CategorySnapshot indicates index snapshot errors.
	CategorySnapshot Category = "SNAPSHOT"
	// CategoryCache indicates result cache errors.
	CategoryCache Category = "CACHE"
	// CategoryEmbed indicates embedding backend errors.
	CategoryEmbed Category = "EMBED"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Ingestion errors (200-299). These are warnings: an unreadable
	// corpus file is skipped, never fatal to a build.
	ErrCodeCorpusNotFound = "ERR_201_CORPUS_NOT_FOUND"
	ErrCodeFileUnreadable = "ERR_202_FILE_UNREADABLE"
	ErrCodeFileNotText    = "ERR_203_FILE_NOT_TEXT"
	ErrCodeFileTooLarge   = "ERR_204_FILE_TOO_LARGE"

	// Snapshot errors (300-399)
	ErrCodeSnapshotMissing = "ERR_301_SNAPSHOT_MISSING"
	ErrCodeSnapshotCorrupt = "ERR_302_SNAPSHOT_CORRUPT"
	ErrCodeSnapshotWrite   = "ERR_303_SNAPSHOT_WRITE"
	ErrCodeSnapshotLocked  = "ERR_304_SNAPSHOT_LOCKED"

	// Cache errors (400-499)
	ErrCodeCacheWrite   = "ERR_401_CACHE_WRITE"
	ErrCodeCacheCorrupt = "ERR_402_CACHE_CORRUPT"

	// Embedding errors (500-599)
	ErrCodeEmbedUnavailable = "ERR_501_EMBED_UNAVAILABLE"
	ErrCodeEmbedFailed      = "ERR_502_EMBED_FAILED"

	// Internal errors (600-699)
	ErrCodeInternal     = "ERR_601_INTERNAL"
	ErrCodeInvalidQuery = "ERR_602_INVALID_QUERY"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIngest
	case '3':
		return CategorySnapshot
	case '4':
		return CategoryCache
	case '5':
		return CategoryEmbed
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeSnapshotCorrupt, ErrCodeSnapshotWrite:
		return SeverityFatal
	}

	if categoryFromCode(code) == CategoryIngest {
		return SeverityWarning
	}

	if isRetryableCode(code) {
		return SeverityWarning
	}

	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
// Retries are a caller concern; the flag only classifies.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeEmbedUnavailable, ErrCodeEmbedFailed, ErrCodeSnapshotLocked:
		return true
	default:
		return false
	}
}
