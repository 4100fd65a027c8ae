// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// MineBlock seals the pending transactions into a new block.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNewBlock()
	if err != nil {
		return err
	}

	resp := mineResponse{
		Message:      "Congratulations, you just mined a block!",
		Index:        block.Index,
		Timestamp:    block.Timestamp,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
		Transactions: block.Transactions,
		Hash:         block.Hash(),
	}
	if resp.Transactions == nil {
		resp.Transactions = []database.Tx{}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the chain with every block annotated with its hash.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain, err := h.State.RetrieveChain()
	if err != nil {
		return err
	}

	resp := state.ChainStatus{
		Chain: database.NewChainData(chain),
		Depth: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// IsValid reports whether the chain passes validation.
func (h Handlers) IsValid(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := message{
		Message: "The Blockchain is valid.",
	}

	err := h.State.ValidateChain()
	switch {
	case errors.Is(err, database.ErrChainInvalid):
		h.Log.Infow("is_valid", "traceid", web.GetTraceID(ctx), "reason", err)
		resp.Message = "The Blockchain is not valid."

	case err != nil:
		return err
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddTransaction adds a new transaction to the mempool.
func (h Handlers) AddTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	tx := database.NewTx(nt.Sender, nt.Receiver, *nt.Amount)

	h.Log.Infow("add tran", "traceid", web.GetTraceID(ctx), "tx", tx)

	next, err := h.State.UpsertTransaction(tx)
	if err != nil {
		if errors.Is(err, state.ErrMalformedTransaction) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := message{
		Message: fmt.Sprintf("This transaction will be added to Block %d", next),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ConnectNode registers the set of peers with this node.
func (h Handlers) ConnectNode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req connectRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	peers, err := h.State.AddKnownPeers(req.Nodes)
	if err != nil {
		if errors.Is(err, peer.ErrInvalidAddress) || errors.Is(err, state.ErrMissingPeerList) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := connectResponse{
		Message:    "All the nodes are now connected. The blockchain now contains the following nodes",
		TotalNodes: make([]string, len(peers)),
	}
	for i, pr := range peers {
		resp.TotalNodes[i] = pr.Host
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ReplaceChain runs the longest chain rule against the known peers.
func (h Handlers) ReplaceChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, chain, err := h.State.ResolveChain(ctx)
	if err != nil {
		return err
	}

	resp := replaceResponse{
		Message: "The chain is the longest.",
		Chain:   database.NewChainData(chain),
	}
	if replaced {
		resp.Message = "The node has different chains. The chain was replaced by the longest one."
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of pending transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	trans := h.State.RetrieveMempool()

	resp := mempoolResponse{
		Transactions: trans,
		Count:        len(trans),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
