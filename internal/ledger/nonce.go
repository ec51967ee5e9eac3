package ledger

import (
	"context"
	"sync"
)

// NonceSequencer issues strictly increasing, gap-free nonces for one signing
// account. It is the single serialization point for all ledger writes from
// this process.
//
// The node's confirmed count alone is not enough under concurrent callers:
// two in-flight transactions would both observe the same count. The sequencer
// therefore caches the last value it handed out and takes the maximum of
// cache and node count; the max recovers correctness after a process restart
// while the cache prevents local races.
type NonceSequencer struct {
	node    Node
	address Address

	mu   sync.Mutex
	last uint64
}

// NewNonceSequencer constructs a sequencer for the given account address.
func NewNonceSequencer(node Node, address Address) *NonceSequencer {
	return &NonceSequencer{node: node, address: address}
}

// Next returns the nonce for the next outgoing transaction. The whole
// read-query-compute-advance region runs under the mutex; a failed count
// query issues no nonce and leaves the cache untouched.
//
// A nonce, once returned, is considered consumed whether or not the
// transaction that carries it confirms.
func (s *NonceSequencer) Next(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.node.TransactionCount(ctx, s.address)
	if err != nil {
		return 0, unavailable(err)
	}

	next := s.last
	if count > next {
		next = count
	}
	next++

	s.last = next
	return next, nil
}
