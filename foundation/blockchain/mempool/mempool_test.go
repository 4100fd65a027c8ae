package mempool_test

import (
	"sync"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestAddDrain(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
	}

	tt := []table{
		{
			name: "single",
			txs: []database.Tx{
				database.NewTx("A", "B", 10),
			},
		},
		{
			name: "ordered",
			txs: []database.Tx{
				database.NewTx("A", "B", 10),
				database.NewTx("B", "C", -3),
				database.NewTx("C", "A", 0),
				database.NewTx("A", "B", 10),
			},
		},
	}

	t.Log("Given the need to stage transactions for the next block.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transactions.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Add(tx); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould report the pool length after add: got %d, exp %d", failed, testID, n, i+1)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould report the pool length after add.", success, testID)

					trans := mp.Drain()
					if len(trans) != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould drain every transaction: got %d, exp %d", failed, testID, len(trans), len(tst.txs))
					}
					t.Logf("\t%s\tTest %d:\tShould drain every transaction.", success, testID)

					for i, tx := range trans {
						if tx != tst.txs[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould drain in insertion order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould drain in insertion order.", success, testID)

					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould leave the pool empty: got %d", failed, testID, mp.Count())
					}
					t.Logf("\t%s\tTest %d:\tShould leave the pool empty.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestDrainIsolation(t *testing.T) {
	t.Log("Given the need to keep drained transactions out of the next block.")
	{
		mp := mempool.New()

		if trans := mp.Drain(); trans == nil || len(trans) != 0 {
			t.Fatalf("\t%s\tShould drain an empty non-nil list from an empty pool.", failed)
		}
		t.Logf("\t%s\tShould drain an empty non-nil list from an empty pool.", success)

		mp.Add(database.NewTx("A", "B", 1))
		trans := mp.Drain()

		mp.Add(database.NewTx("C", "D", 2))
		if len(trans) != 1 || trans[0].Sender != "A" {
			t.Fatalf("\t%s\tShould not see transactions added after the drain: %v", failed, trans)
		}
		t.Logf("\t%s\tShould not see transactions added after the drain.", success)

		cpy := mp.Copy()
		cpy[0].Amount = 100
		if mp.Copy()[0].Amount != 2 {
			t.Fatalf("\t%s\tShould return an independent copy.", failed)
		}
		t.Logf("\t%s\tShould return an independent copy.", success)
	}
}

func TestConcurrentAdd(t *testing.T) {
	t.Log("Given the need to add transactions from many goroutines.")
	{
		mp := mempool.New()

		const g = 50
		var wg sync.WaitGroup
		wg.Add(g)
		for i := 0; i < g; i++ {
			go func() {
				defer wg.Done()
				mp.Add(database.NewTx("A", "B", 1))
			}()
		}
		wg.Wait()

		if n := len(mp.Drain()); n != g {
			t.Fatalf("\t%s\tShould not lose transactions: got %d, exp %d", failed, n, g)
		}
		t.Logf("\t%s\tShould not lose transactions.", success)
	}
}
