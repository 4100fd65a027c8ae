package database

import (
	"crypto/sha256"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// GenesisPrevHash is the previous hash recorded by the first block.
const GenesisPrevHash = "0"

// TimeFormat is the canonical layout used for block timestamps. The timestamp
// is part of the hash input so it is always recorded in UTC with this layout.
const TimeFormat = "2006-01-02 15:04:05.000000"

// =============================================================================

// Block represents a group of transactions batched together and sealed by
// the proof of work.
//
// A block never carries its own hash. The fields are declared in json name
// order since the marshaled block is the hash input.
type Block struct {
	Index        uint64 `json:"index"`         // Position in the chain, starting at 1.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block, "0" for genesis.
	Proof        uint64 `json:"proof"`         // Nonce found by the proof of work.
	Timestamp    string `json:"timestamp"`     // Creation time formatted with TimeFormat.
	Transactions []Tx   `json:"transactions"`  // Transactions sealed in this block.
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return Hash(b)
}

// Hash returns the SHA-256 digest of the canonical form of the block as 64
// lower case hex characters.
func Hash(b Block) string {

	// A nil slice marshals as null and an empty one as []. Normalize so a
	// block decoded from a peer hashes the same as the one that was mined.
	if b.Transactions == nil {
		b.Transactions = []Tx{}
	}

	data, err := json.Marshal(b)
	if err != nil {
		// Non-finite amounts are rejected before a transaction is pooled.
		panic(err)
	}

	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// Timestamp returns the current time in the canonical block format.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// =============================================================================

// BlockData represents what is exported to clients and peers. It carries the
// derived hash for display purposes only.
type BlockData struct {
	Index        uint64 `json:"index"`
	Timestamp    string `json:"timestamp"`
	Proof        uint64 `json:"proof"`
	PreviousHash string `json:"previous_hash"`
	Transactions []Tx   `json:"transactions"`
	Hash         string `json:"hash,omitempty"`
}

// NewBlockData constructs the exported form of a block, including its hash.
// The block itself is not modified.
func NewBlockData(block Block) BlockData {
	trans := make([]Tx, len(block.Transactions))
	copy(trans, block.Transactions)

	return BlockData{
		Index:        block.Index,
		Timestamp:    block.Timestamp,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
		Transactions: trans,
		Hash:         block.Hash(),
	}
}

// ToBlock converts the exported form back into a block, dropping the hash
// annotation so it can't leak into a recomputed hash.
func (bd BlockData) ToBlock() Block {
	trans := make([]Tx, len(bd.Transactions))
	copy(trans, bd.Transactions)

	return Block{
		Index:        bd.Index,
		PreviousHash: bd.PreviousHash,
		Proof:        bd.Proof,
		Timestamp:    bd.Timestamp,
		Transactions: trans,
	}
}

// NewChainData converts a chain into its exported form.
func NewChainData(blocks []Block) []BlockData {
	data := make([]BlockData, len(blocks))
	for i, block := range blocks {
		data[i] = NewBlockData(block)
	}
	return data
}

// ToChain converts an exported chain back into blocks.
func ToChain(data []BlockData) []Block {
	blocks := make([]Block, len(data))
	for i, bd := range data {
		blocks[i] = bd.ToBlock()
	}
	return blocks
}
