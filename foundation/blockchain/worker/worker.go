// Package worker implements background mining and chain syncing for the
// blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Config represents the background work a node performs.
type Config struct {

	// AutoMine mines a block whenever a transaction is accepted.
	AutoMine bool

	// SyncInterval is how often the longest chain rule is run against the
	// known peers. Zero turns periodic syncing off.
	SyncInterval time.Duration
}

// =============================================================================

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state       *state.State
	cfg         Config
	wg          sync.WaitGroup
	ticker      *time.Ticker
	shut        chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	startMining chan bool
	evHandler   state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) *Worker {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:       st,
		cfg:         cfg,
		shut:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		startMining: make(chan bool, 1),
		evHandler:   ev,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
	}

	if cfg.SyncInterval > 0 {
		w.ticker = time.NewTicker(cfg.SyncInterval)
		operations = append(operations, w.syncOperations)
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for range g {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work. A proof of work search
// in progress is allowed to finish.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: cancel peer requests")
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	if !w.cfg.AutoMine {
		return
	}

	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
