package database

import "fmt"

// Tx is the transactional information between two parties. Sender and
// receiver are opaque identifiers and the amount is recorded as given.
//
// The field order matters: a block is hashed by marshaling its transactions
// and encoding/json writes struct fields in declaration order, so fields are
// kept sorted by their json name.
type Tx struct {
	Amount   float64 `json:"amount"`
	Receiver string  `json:"receiver"`
	Sender   string  `json:"sender"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, receiver string, amount float64) Tx {
	return Tx{
		Amount:   amount,
		Receiver: receiver,
		Sender:   sender,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Receiver, tx.Amount)
}
