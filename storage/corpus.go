// Package storage persists the defect corpus: every input that exposed a
// divergence, keyed by its bytes, together with the full defect report.
package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/colorfulnotion/sloppyvm/common"
	"github.com/colorfulnotion/sloppyvm/log"
)

// defectPrefix namespaces defect entries inside the database.
const defectPrefix = "defect/"

// CorpusStore wraps LevelDB for defect persistence. Keying by input bytes
// deduplicates for free: re-finding a known defect overwrites its report.
// Thread-safe: LevelDB handles its own synchronization.
type CorpusStore struct {
	db *leveldb.DB
}

// NewCorpusStore opens or creates a corpus database at the given path.
// If path is empty, uses in-memory storage.
func NewCorpusStore(path string) (*CorpusStore, error) {
	var db *leveldb.DB
	var err error

	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus at %s: %w", path, err)
	}
	return &CorpusStore{db: db}, nil
}

// NewMemoryCorpusStore creates an in-memory CorpusStore for testing.
func NewMemoryCorpusStore() (*CorpusStore, error) {
	return NewCorpusStore("")
}

func defectKey(input []byte) []byte {
	return []byte(defectPrefix + common.ToHex(input))
}

// SaveDefect stores a defect report under the hex of its input bytes.
// Implements the fuzz session's defect sink.
func (cs *CorpusStore) SaveDefect(input []byte, report []byte) error {
	if err := cs.db.Put(defectKey(input), report, nil); err != nil {
		return fmt.Errorf("save defect %x: %w", input, err)
	}
	log.Debug(log.CorpusMonitoring, "defect saved", "input", common.ToHex(input), "bytes", len(report))
	return nil
}

// GetDefect retrieves the report for an input. Returns (nil, false, nil)
// if the input is not in the corpus.
func (cs *CorpusStore) GetDefect(input []byte) ([]byte, bool, error) {
	data, err := cs.db.Get(defectKey(input), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get defect %x: %w", input, err)
	}
	return data, true, nil
}

// Defects returns all stored reports in key order, which is hex order of
// the defect inputs.
func (cs *CorpusStore) Defects() ([][]byte, error) {
	iter := cs.db.NewIterator(util.BytesPrefix([]byte(defectPrefix)), nil)
	defer iter.Release()

	var reports [][]byte
	for iter.Next() {
		// Copy the value to avoid iterator reuse issues
		report := make([]byte, len(iter.Value()))
		copy(report, iter.Value())
		reports = append(reports, report)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("scan defects: %w", err)
	}
	return reports, nil
}

// Count returns the number of stored defects.
func (cs *CorpusStore) Count() (int, error) {
	iter := cs.db.NewIterator(util.BytesPrefix([]byte(defectPrefix)), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("count defects: %w", err)
	}
	return n, nil
}

func (cs *CorpusStore) Close() error {
	return cs.db.Close()
}
