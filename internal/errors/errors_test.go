package errors

import (
	stderrors "errors"
	"testing"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
	}{
		{"config code", ErrCodeConfigInvalid, CategoryConfig},
		{"ingest code", ErrCodeFileUnreadable, CategoryIngest},
		{"snapshot code", ErrCodeSnapshotCorrupt, CategorySnapshot},
		{"cache code", ErrCodeCacheWrite, CategoryCache},
		{"embed code", ErrCodeEmbedFailed, CategoryEmbed},
		{"internal code", ErrCodeInternal, CategoryInternal},
		{"malformed code", "ERR", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.code, "boom", nil)
			if e.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, e.Category)
			}
		})
	}
}

func TestNew_SeverityRules(t *testing.T) {
	if got := New(ErrCodeSnapshotCorrupt, "bad", nil).Severity; got != SeverityFatal {
		t.Errorf("snapshot corruption should be fatal, got %s", got)
	}
	if got := New(ErrCodeFileUnreadable, "skip", nil).Severity; got != SeverityWarning {
		t.Errorf("ingestion errors should be warnings, got %s", got)
	}
	if got := New(ErrCodeInvalidQuery, "bad", nil).Severity; got != SeverityError {
		t.Errorf("expected error severity, got %s", got)
	}
}

func TestError_FormatsCodeAndMessage(t *testing.T) {
	e := New(ErrCodeSnapshotMissing, "no snapshot at path", nil)
	want := "[ERR_301_SNAPSHOT_MISSING] no snapshot at path"
	if e.Error() != want {
		t.Errorf("expected %q, got %q", want, e.Error())
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk went away")
	e := Wrap(ErrCodeSnapshotWrite, cause)

	if !stderrors.Is(e, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if e.Message != cause.Error() {
		t.Errorf("expected message %q, got %q", cause.Error(), e.Message)
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if Wrap(ErrCodeInternal, nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeSnapshotCorrupt, "a", nil)
	b := New(ErrCodeSnapshotCorrupt, "b", nil)
	c := New(ErrCodeSnapshotMissing, "c", nil)

	if !stderrors.Is(a, b) {
		t.Error("errors with same code should match")
	}
	if stderrors.Is(a, c) {
		t.Error("errors with different codes should not match")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(New(ErrCodeEmbedUnavailable, "down", nil)) {
		t.Error("embed unavailable should be retryable")
	}
	if IsRetryable(New(ErrCodeSnapshotCorrupt, "bad", nil)) {
		t.Error("corruption is not retryable")
	}
	if IsRetryable(stderrors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
}

func TestWithDetail_Chains(t *testing.T) {
	e := New(ErrCodeFileUnreadable, "skip", nil).
		WithDetail("path", "docs/readme.md").
		WithDetail("reason", "permission denied")

	if e.Details["path"] != "docs/readme.md" {
		t.Errorf("unexpected detail: %v", e.Details)
	}
	if len(e.Details) != 2 {
		t.Errorf("expected 2 details, got %d", len(e.Details))
	}
}
