package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// SetChain swaps the in-memory chain without any checks so tests can
// corrupt it.
func (s *State) SetChain(blocks []database.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Replace(blocks)
}
