package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// mineResponse is the mined block along with its hash.
type mineResponse struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Timestamp    string        `json:"timestamp"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
	Transactions []database.Tx `json:"transactions"`
	Hash         string        `json:"hash"`
}

type message struct {
	Message string `json:"message"`
}

// newTx is what a client submits to add a transaction. Amount is a pointer
// so a zero amount can be told apart from a missing one.
type newTx struct {
	Sender   string   `json:"sender" validate:"required"`
	Receiver string   `json:"receiver" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required"`
}

type connectRequest struct {
	Nodes []string `json:"nodes"`
}

type connectResponse struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type replaceResponse struct {
	Message string               `json:"message"`
	Chain   []database.BlockData `json:"chain"`
}

type mempoolResponse struct {
	Transactions []database.Tx `json:"transactions"`
	Count        int           `json:"count"`
}
