package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// MineNewBlock drains the mempool, seals a new block on top of the current
// tail, appends it and snapshots the chain.
//
// The whole operation runs while holding the node lock, including the proof
// of work search. Nothing else can add transactions or change the chain until
// the block is committed. The search is not cancellable.
func (s *State) MineNewBlock() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	tail, err := s.db.Tail()
	if err != nil {
		return database.Block{}, err
	}

	// Stage the reward for this node before the pool is drained so it is
	// sealed into this block.
	if s.miningReward > 0 {
		s.mempool.Add(database.NewTx(s.nodeAddress, s.minerName, s.miningReward))
	}

	trans := s.mempool.Drain()

	s.evHandler("state: MineNewBlock: MINING: perform POW: txs[%d]", len(trans))

	t := time.Now()
	block := database.POW(database.POWArgs{
		Index:        tail.Index + 1,
		PreviousHash: tail.Hash(),
		Difficulty:   s.difficulty,
		Trans:        trans,
		EvHandler:    s.evHandler,
	})
	duration := time.Since(t)

	s.evHandler("state: MineNewBlock: MINING: append: blk[%d]: duration[%v]", block.Index, duration)

	if err := s.db.Append(block); err != nil {
		return database.Block{}, fmt.Errorf("append: %w", err)
	}

	s.metrics.BlockMined(s.db.Depth(), duration)

	// A failed snapshot doesn't undo the block. The next successful snapshot
	// will carry it.
	if err := s.db.Snapshot(); err != nil {
		s.evHandler("state: MineNewBlock: WARNING: %s", err)
		s.metrics.SnapshotFailed()
	}

	s.blockEvent(block)

	return block, nil
}

// =============================================================================

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(database.NewBlockData(block))
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: %s`, string(blockJSON))
}
