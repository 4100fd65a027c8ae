package database

import (
	"time"
)

// DefaultDifficulty is the number of leading zero hex digits a block hash
// needs when no difficulty is configured.
//
// The difficulty is a fixed target. Unlike production blockchains it is never
// retargeted based on how long blocks take to mine.
const DefaultDifficulty = 4

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Index        uint64
	PreviousHash string
	Difficulty   uint
	Trans        []Tx
	Now          func() time.Time
	EvHandler    func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a proof that
// solves the cryptographic POW puzzle. The search starts at proof 1 and has
// no upper bound. Once started it runs until a solution is found.
func POW(args POWArgs) Block {
	ev := args.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	now := args.Now
	if now == nil {
		now = time.Now
	}

	// The transactions are captured when the candidate is built. Later changes
	// to the caller's slice don't reach the block being mined.
	trans := make([]Tx, len(args.Trans))
	copy(trans, args.Trans)

	nb := Block{
		Index:        args.Index,
		PreviousHash: args.PreviousHash,
		Proof:        1,
		Timestamp:    Timestamp(now()),
		Transactions: trans,
	}

	nb.performPOW(args.Difficulty, ev)

	return nb
}

// Genesis seals the first block of a chain. It is mined like any other block
// with no transactions and a previous hash of "0".
func Genesis(difficulty uint, evHandler func(v string, args ...any)) Block {
	return POW(POWArgs{
		Index:        1,
		PreviousHash: GenesisPrevHash,
		Difficulty:   difficulty,
		EvHandler:    evHandler,
	})
}

// performPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a proof is being discovered.
func (b *Block) performPOW(difficulty uint, ev func(v string, args ...any)) {
	ev("database: PerformPOW: MINING: started: blk[%d]", b.Index)
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Index)

	for _, tx := range b.Transactions {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", attempts)
		}

		hash := b.Hash()
		if !IsHashSolved(difficulty, hash) {
			b.Proof++
			continue
		}

		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.PreviousHash, hash, attempts)
		return
	}
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != 64 || difficulty > 64 {
		return false
	}

	for i := uint(0); i < difficulty; i++ {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}
