package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// RetrieveChain returns the chain as seen by clients. Depending on the read
// mode this is the in-memory chain or the last snapshot.
func (s *State) RetrieveChain() ([]database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Chain()
}

// RetrieveLatestBlock returns the tail of the in-memory chain.
func (s *State) RetrieveLatestBlock() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Tail()
}

// QueryDepth returns the number of blocks in the in-memory chain.
func (s *State) QueryDepth() int {
	return s.db.Depth()
}

// ValidateChain checks the chain clients see against the link and
// difficulty rules. A nil error means the chain is valid; an error wrapping
// database.ErrChainInvalid describes the first violation.
func (s *State) ValidateChain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain, err := s.db.Chain()
	if err != nil {
		return err
	}

	return database.ValidateChain(chain, s.difficulty)
}
