package disk

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/klauspost/compress/zstd"
)

// snapshot represents what is written to the snapshot file.
type snapshot struct {
	Depth  int              `json:"depth"`
	Blocks []database.Block `json:"blocks"`
}

// Encode writes the chain to w as zstd compressed JSON.
func Encode(w io.Writer, blocks []database.Block) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}

	snap := snapshot{
		Depth:  len(blocks),
		Blocks: blocks,
	}

	if err := json.NewEncoder(enc).Encode(snap); err != nil {
		enc.Close()
		return fmt.Errorf("encode: %w", err)
	}

	// Close flushes the final frame.
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd close: %w", err)
	}

	return nil
}

// Decode reads a chain written by Encode.
func Decode(r io.Reader) ([]database.Block, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var snap snapshot
	if err := json.NewDecoder(dec).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if snap.Depth != len(snap.Blocks) {
		return nil, fmt.Errorf("decode: depth %d doesn't match %d blocks", snap.Depth, len(snap.Blocks))
	}

	return snap.Blocks, nil
}
