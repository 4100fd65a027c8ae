package state

import (
	"fmt"
	"math"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// UpsertTransaction accepts a transaction for inclusion in the next block
// and returns the index of the block it will be mined into. The amount is
// not validated beyond being a finite number.
func (s *State) UpsertTransaction(tx database.Tx) (uint64, error) {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return 0, fmt.Errorf("%w: amount must be a finite number", ErrMalformedTransaction)
	}

	var next uint64
	func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.mempool.Add(tx)
		next = uint64(s.db.Depth()) + 1
	}()

	s.evHandler("state: UpsertTransaction: tx[%s]: next blk[%d]", tx, next)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return next, nil
}

// RetrieveMempool returns a copy of the pending transactions.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
