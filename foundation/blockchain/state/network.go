package state

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/go-resty/resty/v2"
)

const (
	chainURL           = "http://%s/get_chain"
	defaultPeerTimeout = 5 * time.Second
)

// ChainStatus represents the chain a node exposes to clients and peers.
type ChainStatus struct {
	Chain []database.BlockData `json:"chain"`
	Depth int                  `json:"depth"`
}

// Client represents the behavior required to ask a peer for its chain.
type Client interface {
	RequestChain(ctx context.Context, pr peer.Peer) ([]database.Block, error)
}

// =============================================================================

// HTTPClient requests chains from peers over HTTP.
type HTTPClient struct {
	client *resty.Client
}

// NewHTTPClient constructs a client where every request is bound by the
// specified timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultPeerTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPClient{
		client: client,
	}
}

// RequestChain fetches the peer's chain. Transport failures and non success
// status codes wrap ErrPeerUnreachable. A body that can't be decoded, or
// whose depth doesn't match the number of blocks, wraps
// ErrPeerResponseUnparsable.
func (c *HTTPClient) RequestChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	url := fmt.Sprintf(chainURL, pr.Host)

	resp, err := c.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrPeerUnreachable, pr, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status[%d]", ErrPeerUnreachable, pr, resp.StatusCode())
	}

	var status ChainStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrPeerResponseUnparsable, pr, err)
	}

	if status.Depth != len(status.Chain) {
		return nil, fmt.Errorf("%w: %s: depth[%d] blocks[%d]", ErrPeerResponseUnparsable, pr, status.Depth, len(status.Chain))
	}

	return database.ToChain(status.Chain), nil
}
