// Package database handles all the lower level support for maintaining the
// blockchain in memory and snapshotting it to durable storage.
package database

import (
	"errors"
	"fmt"
	"sync"
)

// Set of errors returned by the database.
var (
	ErrEmptyChain   = errors.New("chain is empty")
	ErrNotNextBlock = errors.New("block is not the next block in the chain")
	ErrNoSnapshot   = errors.New("no snapshot exists")
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for snapshotting and restoring the blockchain.
type Storage interface {
	Snapshot(blocks []Block) error
	Restore() ([]Block, error)
	Close() error
}

// =============================================================================

// ReadMode controls where chain queries are served from.
type ReadMode string

// Set of supported read modes.
const (
	// ReadMemory serves the chain from memory. Snapshots exist for crash
	// recovery only.
	ReadMemory ReadMode = "memory"

	// ReadThrough re-reads the last snapshot for every chain query.
	ReadThrough ReadMode = "readthrough"
)

// ParseReadMode converts a configuration string into a ReadMode.
func ParseReadMode(s string) (ReadMode, error) {
	switch ReadMode(s) {
	case ReadMemory, "":
		return ReadMemory, nil
	case ReadThrough:
		return ReadThrough, nil
	}

	return "", fmt.Errorf("unknown read mode %q", s)
}

// =============================================================================

// Config represents the configuration required to open the database.
type Config struct {
	Storage    Storage
	ReadMode   ReadMode
	Difficulty uint
	EvHandler  func(v string, args ...any)
}

// Database manages the ordered sequence of blocks.
type Database struct {
	mu       sync.RWMutex
	blocks   []Block
	storage  Storage
	readMode ReadMode
}

// New constructs a database and loads the last snapshot if one exists. A
// restored chain that doesn't validate is rejected.
func New(cfg Config) (*Database, error) {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	readMode := cfg.ReadMode
	if readMode == "" {
		readMode = ReadMemory
	}

	db := Database{
		storage:  cfg.Storage,
		readMode: readMode,
	}

	blocks, err := cfg.Storage.Restore()
	switch {
	case errors.Is(err, ErrNoSnapshot):
		ev("database: New: no snapshot found")
		return &db, nil

	case err != nil:
		return nil, fmt.Errorf("restore: %w", err)
	}

	if err := ValidateChain(blocks, cfg.Difficulty); err != nil {
		return nil, fmt.Errorf("restored chain: %w", err)
	}

	ev("database: New: restored snapshot: depth[%d]", len(blocks))
	db.blocks = blocks

	return &db, nil
}

// Close closes the storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// ReadMode returns the configured read mode.
func (db *Database) ReadMode() ReadMode {
	return db.readMode
}

// Append adds the block to the tail of the chain. The block must link to the
// current tail, or be a genesis block for an empty chain. Callers build
// blocks from the current tail so a failure here is a bug in the caller.
func (db *Database) Append(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.blocks) == 0 {
		if block.PreviousHash != GenesisPrevHash || block.Index != 1 {
			return fmt.Errorf("%w: expected genesis, got blk[%d] prev[%s]", ErrNotNextBlock, block.Index, block.PreviousHash)
		}

		db.blocks = append(db.blocks, block)
		return nil
	}

	tail := db.blocks[len(db.blocks)-1]
	if block.PreviousHash != tail.Hash() || block.Index != tail.Index+1 {
		return fmt.Errorf("%w: got blk[%d] prev[%s], tail blk[%d]", ErrNotNextBlock, block.Index, block.PreviousHash, tail.Index)
	}

	db.blocks = append(db.blocks, block)
	return nil
}

// Tail returns the last block in the chain.
func (db *Database) Tail() (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.blocks) == 0 {
		return Block{}, ErrEmptyChain
	}

	return db.blocks[len(db.blocks)-1], nil
}

// Depth returns the number of blocks in the in-memory chain.
func (db *Database) Depth() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.blocks)
}

// Copy returns a copy of the in-memory chain. Changes to the copy don't
// affect the stored blocks.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return copyBlocks(db.blocks)
}

// Replace swaps the entire chain for the specified blocks.
func (db *Database) Replace(blocks []Block) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.blocks = copyBlocks(blocks)
}

// Snapshot writes the in-memory chain to storage, replacing the prior
// snapshot.
func (db *Database) Snapshot() error {
	blocks := db.Copy()

	if err := db.storage.Snapshot(blocks); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	return nil
}

// Chain returns the chain according to the read mode. In read through mode
// the last snapshot is read back from storage.
func (db *Database) Chain() ([]Block, error) {
	if db.readMode == ReadThrough {
		blocks, err := db.storage.Restore()
		if err != nil {
			return nil, fmt.Errorf("read through: %w", err)
		}
		return blocks, nil
	}

	return db.Copy(), nil
}

// =============================================================================

// copyBlocks performs a copy of the blocks and their transactions.
func copyBlocks(blocks []Block) []Block {
	cpy := make([]Block, len(blocks))
	for i, block := range blocks {
		trans := make([]Tx, len(block.Transactions))
		copy(trans, block.Transactions)

		block.Transactions = trans
		cpy[i] = block
	}
	return cpy
}
