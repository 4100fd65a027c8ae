// Package peer maintains the peer related information such as the set
// of known peers and their status.
package peer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidAddress is returned when a peer address has no usable host.
var ErrInvalidAddress = errors.New("invalid peer address")

// Peer represents information about a Node in the network. Host is always
// in canonical host:port form.
type Peer struct {
	Host string
}

// New contructs a new peer value from an address that is already canonical.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Parse converts an address such as "http://127.0.0.1:5001/" or
// "Node1:5001" into a peer with a canonical host. The scheme, path and
// query are dropped and the host name is lower cased.
func Parse(address string) (Peer, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Peer{}, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return Peer{}, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return Peer{}, fmt.Errorf("%w: %q has no host", ErrInvalidAddress, address)
	}

	port := u.Port()
	if port == "" {
		return New(host), nil
	}

	return New(net.JoinHostPort(host, port)), nil
}

// Match validates if the specified host matches this node.
// Loopback and unspecified addresses on the same port are treated as this
// node, so a node listening on 0.0.0.0:5001 matches localhost:5001.
func (p Peer) Match(host string) bool {
	if p.Host == host {
		return true
	}

	pHost, pPort, err := net.SplitHostPort(p.Host)
	if err != nil {
		return false
	}

	hHost, hPort, err := net.SplitHostPort(host)
	if err != nil || pPort != hPort {
		return false
	}

	return isLocal(pHost) && isLocal(hHost)
}

func isLocal(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set. It returns false if the peer already exists.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Len returns the number of known peers.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns a list of the known peers sorted by host, leaving out the
// specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Host < peers[j].Host
	})

	return peers
}
