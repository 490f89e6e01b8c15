package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"

	kberrors "github.com/promptops/kbindex/internal/errors"
)

// SnapshotFile is the snapshot artifact name inside the index dir.
const SnapshotFile = "snapshot.json"

// Save atomically writes the snapshot into dir. Readers never observe
// a partially written artifact: the file is staged and renamed into
// place.
func Save(snap *Snapshot, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return kberrors.PersistenceError(
			fmt.Sprintf("cannot create index dir %s", dir), err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return kberrors.PersistenceError("cannot encode snapshot", err)
	}

	path := filepath.Join(dir, SnapshotFile)
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return kberrors.PersistenceError(
			fmt.Sprintf("cannot write snapshot %s", path), err)
	}
	return nil
}

// Load reads the snapshot from dir. A missing artifact yields
// ErrCodeSnapshotMissing; a present but unreadable or malformed one
// yields ErrCodeSnapshotCorrupt. Corruption is never downgraded to an
// empty index.
func Load(dir string) (*Snapshot, error) {
	path := filepath.Join(dir, SnapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kberrors.New(kberrors.ErrCodeSnapshotMissing,
				fmt.Sprintf("no snapshot at %s", path), err)
		}
		return nil, kberrors.SnapshotCorrupt(
			fmt.Sprintf("cannot read snapshot %s", path), err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, kberrors.SnapshotCorrupt(
			fmt.Sprintf("malformed snapshot %s", path), err)
	}
	if snap.IDF == nil {
		snap.IDF = map[string]float64{}
	}
	if snap.Postings == nil {
		snap.Postings = map[string][]Posting{}
	}
	return &snap, nil
}

// LoadOrEmpty loads the snapshot, treating only a missing artifact as
// an empty corpus. Corruption still fails loudly.
func LoadOrEmpty(dir string) (*Snapshot, error) {
	snap, err := Load(dir)
	if err != nil {
		if kberrors.GetCode(err) == kberrors.ErrCodeSnapshotMissing {
			return NewEmptySnapshot(), nil
		}
		return nil, err
	}
	return snap, nil
}
