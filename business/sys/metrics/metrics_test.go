package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	m := metrics.New()

	m.Request()
	m.BlockMined(2, 10*time.Millisecond)
	m.ChainReplaced(5)
	m.PeerFailed()

	count, err := testutil.GatherAndCount(m.Registry(), "ledger_blocks_mined_total", "ledger_chain_depth")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "ledger_chain_depth 5")
	require.Contains(t, string(body), "ledger_peer_failures_total 1")
}

func TestChainLoaded(t *testing.T) {
	m := metrics.New()

	m.ChainLoaded(7)

	exp := `
# HELP ledger_chain_depth Number of blocks in the local chain.
# TYPE ledger_chain_depth gauge
ledger_chain_depth 7
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(exp), "ledger_chain_depth"))
}
