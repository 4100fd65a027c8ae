// Package memory implements the ability to snapshot and restore the
// blockchain in memory. It is used for tests and nodes that don't need
// crash recovery.
package memory

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Memory represents the serialization implementation for holding the last
// snapshot in memory. This implements the database.Storage interface.
type Memory struct {
	mu        sync.RWMutex
	blocks    []database.Block
	snapshots int
	fail      error
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Snapshot replaces the held snapshot with a copy of the blocks.
func (m *Memory) Snapshot(blocks []database.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}

	m.blocks = copyBlocks(blocks)
	m.snapshots++

	return nil
}

// Restore returns a copy of the last snapshot.
func (m *Memory) Restore() ([]database.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshots == 0 {
		return nil, database.ErrNoSnapshot
	}

	return copyBlocks(m.blocks), nil
}

// Snapshots returns the number of snapshots taken.
func (m *Memory) Snapshots() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshots
}

// FailWith makes every following snapshot fail with err. Passing nil
// restores normal behavior.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fail = err
}

// =============================================================================

func copyBlocks(blocks []database.Block) []database.Block {
	cpy := make([]database.Block, len(blocks))
	for i, block := range blocks {
		trans := make([]database.Tx, len(block.Transactions))
		copy(trans, block.Transactions)

		block.Transactions = trans
		cpy[i] = block
	}
	return cpy
}
