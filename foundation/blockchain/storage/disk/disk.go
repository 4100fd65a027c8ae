// Package disk implements the ability to snapshot and restore the blockchain
// to a single compressed file on disk.
package disk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Disk represents the serialization implementation for storing the full
// chain in one zstd compressed JSON file. This implements the
// database.Storage interface.
type Disk struct {
	mu     sync.Mutex
	dbPath string
}

// New constructs a Disk value for use. The directory holding the snapshot
// file is created if it doesn't exist.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since the snapshot file
// is opened and closed on every call.
func (d *Disk) Close() error {
	return nil
}

// Path returns the location of the snapshot file.
func (d *Disk) Path() string {
	return d.dbPath
}

// Snapshot writes the chain to a temporary file next to the snapshot and
// renames it over the snapshot. A failed write leaves the previous snapshot
// untouched.
func (d *Disk) Snapshot(blocks []database.Block) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.CreateTemp(filepath.Dir(d.dbPath), filepath.Base(d.dbPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := f.Name()

	// Remove the temp file on any failure below.
	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := Encode(f, blocks); err != nil {
		return err
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmpPath, d.dbPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	committed = true

	return nil
}

// Restore reads the last snapshot back from disk.
func (d *Disk) Restore() ([]database.Block, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.Open(d.dbPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, database.ErrNoSnapshot
		}
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
