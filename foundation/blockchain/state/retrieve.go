package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveNodeAddress returns the address this node uses as the sender of
// mining rewards.
func (s *State) RetrieveNodeAddress() string {
	return s.nodeAddress
}

// RetrieveKnownPeers retrieves a copy of the known peer list, leaving out
// this node.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// AddKnownPeers parses the addresses and registers them as peers. Nothing is
// added unless every address is valid. A nil list is rejected while an empty
// list is accepted.
func (s *State) AddKnownPeers(addresses []string) ([]peer.Peer, error) {
	if addresses == nil {
		return nil, ErrMissingPeerList
	}

	peers := make([]peer.Peer, 0, len(addresses))
	for _, address := range addresses {
		pr, err := peer.Parse(address)
		if err != nil {
			return nil, err
		}
		peers = append(peers, pr)
	}

	for _, pr := range peers {
		if pr.Match(s.host) {
			continue
		}

		if s.knownPeers.Add(pr) {
			s.evHandler("state: AddKnownPeers: adding peer-node %s", pr)
		}
	}

	return s.RetrieveKnownPeers(), nil
}

// RemoveKnownPeer removes the peer from the list.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)
}

// String implements the fmt.Stringer interface for logging.
func (s *State) String() string {
	return fmt.Sprintf("node[%s]: depth[%d]: peers[%d]", s.host, s.db.Depth(), s.knownPeers.Len())
}
