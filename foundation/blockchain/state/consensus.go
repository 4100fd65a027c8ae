package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"golang.org/x/sync/errgroup"
)

// ResolveArgs represents the set of arguments required to run the longest
// chain rule.
type ResolveArgs struct {
	Local       []database.Block
	Peers       []peer.Peer
	Client      Client
	Difficulty  uint
	Concurrency int
	EvHandler   EventHandler
}

// Resolution is the outcome of running the longest chain rule.
type Resolution struct {
	Replaced bool
	Chain    []database.Block
	Source   peer.Peer
	Failures map[peer.Peer]error
}

// Resolve asks every peer for its chain and picks the longest valid chain
// that is strictly longer than the local one. Peers are polled concurrently
// but considered in the order given, so on equal lengths the earlier peer
// wins. A peer that fails is recorded and skipped. When no peer qualifies
// the local chain is returned unchanged.
func Resolve(ctx context.Context, args ResolveArgs) Resolution {
	ev := func(v string, a ...any) {
		if args.EvHandler != nil {
			args.EvHandler(v, a...)
		}
	}

	res := Resolution{
		Chain:    args.Local,
		Failures: make(map[peer.Peer]error),
	}

	if len(args.Peers) == 0 {
		return res
	}

	chains := make([][]database.Block, len(args.Peers))
	errs := make([]error, len(args.Peers))

	g, ctx := errgroup.WithContext(ctx)
	if args.Concurrency > 0 {
		g.SetLimit(args.Concurrency)
	}

	for i, pr := range args.Peers {
		g.Go(func() error {
			chain, err := args.Client.RequestChain(ctx, pr)
			if err != nil {
				errs[i] = err
				return nil
			}
			chains[i] = chain
			return nil
		})
	}

	// Peer failures are collected per peer, never returned to the group.
	g.Wait()

	best := len(args.Local)
	for i, pr := range args.Peers {
		if errs[i] != nil {
			ev("state: Resolve: peer[%s]: ERROR: %s", pr, errs[i])
			res.Failures[pr] = errs[i]
			continue
		}

		chain := chains[i]
		if len(chain) <= best {
			ev("state: Resolve: peer[%s]: depth[%d]: not longer", pr, len(chain))
			continue
		}

		if err := database.ValidateChain(chain, args.Difficulty); err != nil {
			ev("state: Resolve: peer[%s]: depth[%d]: rejected: %s", pr, len(chain), err)
			res.Failures[pr] = err
			continue
		}

		ev("state: Resolve: peer[%s]: depth[%d]: candidate", pr, len(chain))

		best = len(chain)
		res.Replaced = true
		res.Chain = chain
		res.Source = pr
	}

	return res
}

// =============================================================================

// ResolveChain runs the longest chain rule against the known peers and
// adopts the winning chain. It returns true if the local chain was replaced.
// The peers are polled without holding the node lock, so the chain is only
// replaced if it is still longer than the local one at the time of adoption.
func (s *State) ResolveChain(ctx context.Context) (bool, []database.Block, error) {
	s.evHandler("state: ResolveChain: started")
	defer s.evHandler("state: ResolveChain: completed")

	local, err := s.RetrieveChain()
	if err != nil {
		return false, nil, err
	}

	res := Resolve(ctx, ResolveArgs{
		Local:       local,
		Peers:       s.RetrieveKnownPeers(),
		Client:      s.client,
		Difficulty:  s.difficulty,
		Concurrency: s.peerConcurrency,
		EvHandler:   s.evHandler,
	})

	for range res.Failures {
		s.metrics.PeerFailed()
	}

	if !res.Replaced {
		return false, local, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(res.Chain) <= s.db.Depth() {
		s.evHandler("state: ResolveChain: peer[%s]: chain no longer the longest", res.Source)
		return false, s.db.Copy(), nil
	}

	s.db.Replace(res.Chain)
	s.metrics.ChainReplaced(len(res.Chain))

	s.evHandler("state: ResolveChain: replaced by peer[%s]: depth[%d]", res.Source, len(res.Chain))

	if err := s.db.Snapshot(); err != nil {
		s.evHandler("state: ResolveChain: WARNING: %s", err)
		s.metrics.SnapshotFailed()
	}

	return true, s.db.Copy(), nil
}
