// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/google/uuid"
)

// Set of errors returned by the state package.
var (
	ErrMalformedTransaction   = errors.New("malformed transaction")
	ErrMissingPeerList        = errors.New("missing peer list")
	ErrPeerUnreachable        = errors.New("peer unreachable")
	ErrPeerResponseUnparsable = errors.New("peer response unparsable")
)

// defaultPeerConcurrency is the number of peers polled at the same time
// during consensus when no value is configured.
const defaultPeerConcurrency = 8

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining and chain syncing.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// Metrics interface represents the behavior required to record what the
// node is doing.
type Metrics interface {
	ChainLoaded(depth int)
	BlockMined(depth int, duration time.Duration)
	ChainReplaced(depth int)
	PeerFailed()
	SnapshotFailed()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Host            string
	Storage         database.Storage
	ReadMode        database.ReadMode
	Difficulty      uint
	NodeAddress     string
	MinerName       string
	MiningReward    float64
	KnownPeers      *peer.PeerSet
	Client          Client
	PeerConcurrency int
	EvHandler       EventHandler
	Metrics         Metrics
}

// State manages the blockchain database. The mutex is the single exclusive
// region for the node: mining, adding transactions, replacing the chain and
// consistent chain reads all hold it.
type State struct {
	mu sync.Mutex

	host            string
	difficulty      uint
	nodeAddress     string
	minerName       string
	miningReward    float64
	peerConcurrency int
	evHandler       EventHandler
	metrics         Metrics

	knownPeers *peer.PeerSet
	client     Client
	mempool    *mempool.Mempool
	db         *database.Database

	Worker Worker
}

// New constructs a new blockchain for data management. The last snapshot is
// restored when one exists, otherwise a genesis block is mined and
// snapshotted.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	difficulty := cfg.Difficulty
	if difficulty == 0 {
		difficulty = database.DefaultDifficulty
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	nodeAddress := cfg.NodeAddress
	if nodeAddress == "" {
		nodeAddress = strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	peerConcurrency := cfg.PeerConcurrency
	if peerConcurrency <= 0 {
		peerConcurrency = defaultPeerConcurrency
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}

	client := cfg.Client
	if client == nil {
		client = NewHTTPClient(defaultPeerTimeout)
	}

	// Access the database and restore the last snapshot if there is one.
	db, err := database.New(database.Config{
		Storage:    cfg.Storage,
		ReadMode:   cfg.ReadMode,
		Difficulty: difficulty,
		EvHandler:  ev,
	})
	if err != nil {
		return nil, err
	}

	state := State{
		host:            cfg.Host,
		difficulty:      difficulty,
		nodeAddress:     nodeAddress,
		minerName:       cfg.MinerName,
		miningReward:    cfg.MiningReward,
		peerConcurrency: peerConcurrency,
		evHandler:       ev,
		metrics:         metrics,

		knownPeers: knownPeers,
		client:     client,
		mempool:    mempool.New(),
		db:         db,
	}

	// A node starts READY. Seal the genesis block if nothing was restored.
	if db.Depth() == 0 {
		ev("state: New: mining genesis block: difficulty[%d]", difficulty)

		genesis := database.Genesis(difficulty, ev)
		if err := db.Append(genesis); err != nil {
			return nil, fmt.Errorf("genesis: %w", err)
		}

		if err := db.Snapshot(); err != nil {
			return nil, err
		}
	}

	metrics.ChainLoaded(db.Depth())

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	// Make sure the storage is properly closed.
	return s.db.Close()
}

// Difficulty returns the fixed difficulty target for this node.
func (s *State) Difficulty() uint {
	return s.difficulty
}

// =============================================================================

type nopMetrics struct{}

func (nopMetrics) ChainLoaded(int)               {}
func (nopMetrics) BlockMined(int, time.Duration) {}
func (nopMetrics) ChainReplaced(int)             {}
func (nopMetrics) PeerFailed()                   {}
func (nopMetrics) SnapshotFailed()               {}
