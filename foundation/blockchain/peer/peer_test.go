package peer_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host1"}, {Host: "host2"}, {Host: "host3"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				ps.Add(peer)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			for i := 1; i < len(peers); i++ {
				if peers[i-1].Host > peers[i].Host {
					t.Fatalf("Test %s:\tShould get back the peers sorted by host.", tst.name)
				}
			}

			ps.Remove(peer.New("host1"))
			if ps.Len() != len(tst.peers)-1 {
				t.Fatalf("Test %s:\tShould be able to remove a peer.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Parse(t *testing.T) {
	type table struct {
		name    string
		address string
		host    string
		err     bool
	}

	tt := []table{
		{name: "url", address: "http://127.0.0.1:5001", host: "127.0.0.1:5001"},
		{name: "url-path", address: "http://127.0.0.1:5001/get_chain", host: "127.0.0.1:5001"},
		{name: "host-port", address: "127.0.0.1:5002", host: "127.0.0.1:5002"},
		{name: "case", address: "HTTP://Node1.Example.COM:80", host: "node1.example.com:80"},
		{name: "no-port", address: "node1", host: "node1"},
		{name: "ipv6", address: "http://[::1]:5001", host: "[::1]:5001"},
		{name: "spaces", address: "  node1:5001 ", host: "node1:5001"},
		{name: "empty", address: "", err: true},
		{name: "no-host", address: "http://:5001", err: true},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			p, err := peer.Parse(tst.address)
			if tst.err {
				if !errors.Is(err, peer.ErrInvalidAddress) {
					t.Fatalf("Test %s:\tShould reject the address: %v", tst.name, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Test %s:\tShould parse the address: %v", tst.name, err)
			}

			if p.Host != tst.host {
				t.Logf("Test %s:\tgot: %s", tst.name, p.Host)
				t.Logf("Test %s:\texp: %s", tst.name, tst.host)
				t.Fatalf("Test %s:\tShould get back the canonical host.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Dedup(t *testing.T) {
	ps := peer.NewPeerSet()

	for _, addr := range []string{"http://127.0.0.1:5001", "127.0.0.1:5001", "HTTP://127.0.0.1:5001/"} {
		p, err := peer.Parse(addr)
		if err != nil {
			t.Fatalf("Should parse %q: %v", addr, err)
		}
		ps.Add(p)
	}

	if ps.Len() != 1 {
		t.Fatalf("Should dedup addresses by canonical form, got %d peers", ps.Len())
	}
}

func Test_Match(t *testing.T) {
	tt := []struct {
		peer  string
		host  string
		match bool
	}{
		{"node1:5001", "node1:5001", true},
		{"localhost:5001", "0.0.0.0:5001", true},
		{"127.0.0.1:5001", "0.0.0.0:5001", true},
		{"[::1]:5001", "localhost:5001", true},
		{"127.0.0.1:5002", "0.0.0.0:5001", false},
		{"10.0.0.7:5001", "0.0.0.0:5001", false},
		{"node1:5001", "node2:5001", false},
		{"node1", "0.0.0.0:5001", false},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			if got := peer.New(tst.peer).Match(tst.host); got != tst.match {
				t.Fatalf("Test %s:\tShould match[%v] host %s: got %v", tst.peer, tst.match, tst.host, got)
			}
		}

		t.Run(tst.peer+"@"+tst.host, f)
	}
}
