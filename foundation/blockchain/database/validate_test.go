package database_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

func Test_ValidateChain(t *testing.T) {
	chain := mineChain(4)

	t.Log("Given the need to validate a chain.")
	{
		if err := database.ValidateChain(nil, difficulty); err != nil {
			t.Fatalf("\t%s\tShould accept an empty chain: %v", failed, err)
		}
		if err := database.ValidateChain(chain[:1], difficulty); err != nil {
			t.Fatalf("\t%s\tShould accept a genesis only chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept chains of length 0 and 1.", success)

		if err := database.ValidateChain(chain, difficulty); err != nil {
			t.Fatalf("\t%s\tShould accept a mined chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a mined chain.", success)

		if database.IsChainValid(chain, difficulty+10) {
			t.Fatalf("\t%s\tShould reject a chain that doesn't meet the difficulty.", failed)
		}
		t.Logf("\t%s\tShould reject a chain that doesn't meet the difficulty.", success)
	}
}

func Test_ValidateMutations(t *testing.T) {
	type table struct {
		name   string
		mutate func(b *database.Block)
	}

	tt := []table{
		{name: "proof", mutate: func(b *database.Block) { b.Proof += 1_000_003 }},
		{name: "previous_hash", mutate: func(b *database.Block) { b.PreviousHash = "not a hash" }},
		{name: "amount", mutate: func(b *database.Block) { b.Transactions[0].Amount += 1 }},
		{name: "receiver", mutate: func(b *database.Block) { b.Transactions[0].Receiver = "Mallory" }},
		{name: "drop-tx", mutate: func(b *database.Block) { b.Transactions = nil }},
		{name: "add-tx", mutate: func(b *database.Block) {
			b.Transactions = append(b.Transactions, database.NewTx("X", "Y", 1))
		}},
	}

	t.Log("Given the need to detect tampered blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen mutating the %s of a block.", testID, tst.name)
			{
				f := func(t *testing.T) {

					// A mutated block is caught through its child's previous
					// hash. The tail is only caught by its difficulty check,
					// which a mutation can satisfy by chance.
					for i := 1; i < 3; i++ {
						chain := mineChain(4)
						tst.mutate(&chain[i])

						err := database.ValidateChain(chain, difficulty)
						if !errors.Is(err, database.ErrChainInvalid) {
							t.Fatalf("\t%s\tTest %d:\tShould reject blk[%d] mutation: %v", failed, testID, i+1, err)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould reject the mutation.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_ValidateExported(t *testing.T) {
	chain := mineChain(3)

	t.Log("Given the need to validate a chain received with hash annotations.")
	{
		data, err := json.Marshal(database.NewChainData(chain))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to marshal the chain: %v", failed, err)
		}

		var exported []database.BlockData
		if err := json.Unmarshal(data, &exported); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal the chain: %v", failed, err)
		}

		for _, bd := range exported {
			if bd.Hash == "" {
				t.Fatalf("\t%s\tShould carry a hash annotation per block.", failed)
			}
		}

		if err := database.ValidateChain(database.ToChain(exported), difficulty); err != nil {
			t.Fatalf("\t%s\tShould validate the exported chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould validate the exported chain.", success)
	}
}
