package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Sender   string   `json:"sender" validate:"required"`
	Receiver string   `json:"receiver" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required"`
}

func TestCheck(t *testing.T) {
	amount := 0.0

	err := validate.Check(payload{Sender: "A", Receiver: "B", Amount: &amount})
	require.NoError(t, err)

	err = validate.Check(payload{Sender: "A"})
	require.True(t, validate.IsFieldErrors(err))

	fields := validate.GetFieldErrors(err).Fields()
	require.Len(t, fields, 2)
	require.Contains(t, fields, "receiver")
	require.Contains(t, fields, "amount")
}
