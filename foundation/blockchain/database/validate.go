package database

import (
	"errors"
	"fmt"
)

// ErrChainInvalid is returned when a chain breaks the link or difficulty rules.
var ErrChainInvalid = errors.New("chain is not valid")

// ValidateChain walks the chain and checks every block against its parent.
// Chains of length 0 or 1 are valid. Validation stops at the first violation.
//
// The genesis block is not checked for difficulty since it is sealed by the
// same POW as every other block.
func ValidateChain(chain []Block, difficulty uint) error {
	for i := 1; i < len(chain); i++ {
		if err := chain[i].ValidateBlock(chain[i-1], difficulty); err != nil {
			return fmt.Errorf("%w: blk[%d]: %s", ErrChainInvalid, i+1, err)
		}
	}

	return nil
}

// IsChainValid reports whether the chain passes ValidateChain.
func IsChainValid(chain []Block, difficulty uint) bool {
	return ValidateChain(chain, difficulty) == nil
}

// ValidateBlock checks the block links to the previous block and that its
// hash has been solved.
func (b Block) ValidateBlock(previousBlock Block, difficulty uint) error {
	prevHash := previousBlock.Hash()
	if b.PreviousHash != prevHash {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.PreviousHash, prevHash)
	}

	hash := b.Hash()
	if !IsHashSolved(difficulty, hash) {
		return fmt.Errorf("%s invalid block hash for difficulty %d", hash, difficulty)
	}

	return nil
}
