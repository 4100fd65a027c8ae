package commands_test

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/app/tooling/admin/commands"
	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startNode(t *testing.T) (string, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "chain.snapshot")
	storage, err := disk.New(dbPath)
	require.NoError(t, err)

	st, err := state.New(state.Config{
		Host:       "localhost:5001",
		Storage:    storage,
		Difficulty: 2,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handlers.PublicMux(handlers.MuxConfig{
		Log:     zap.NewNop().Sugar(),
		State:   st,
		Evts:    events.New(),
		Metrics: metrics.New(),
	}))
	t.Cleanup(srv.Close)

	return srv.URL, dbPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root, err := commands.NewRootCmd("test")
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), err
}

func TestAdminAgainstNode(t *testing.T) {
	url, dbPath := startNode(t)

	out, err := execute(t, "--url", url, "send", "--sender", "A", "--receiver", "B", "--amount", "10")
	require.NoError(t, err)
	require.Contains(t, out, "This transaction will be added to Block 2")

	out, err = execute(t, "--url", url, "mine", "--count", "2")
	require.NoError(t, err)
	require.Contains(t, out, "Mined up to block 3")

	out, err = execute(t, "--url", url, "chain")
	require.NoError(t, err)
	require.Contains(t, out, "Depth: 3")
	require.Contains(t, out, "A->B:10")

	out, err = execute(t, "--url", url, "validate")
	require.NoError(t, err)
	require.Contains(t, out, "The Blockchain is valid.")

	out, err = execute(t, "snapshot", "inspect", "--difficulty", "2", dbPath)
	require.NoError(t, err)
	require.Contains(t, out, "Depth: 3")
	require.Contains(t, out, "The Blockchain is valid.")
}

func TestAdminReportsNodeErrors(t *testing.T) {
	url, _ := startNode(t)

	_, err := execute(t, "--url", url, "peers", "add", "http://")
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")

	_, err = execute(t, "--url", url, "mine", "--count", "0")
	require.Error(t, err)
}
