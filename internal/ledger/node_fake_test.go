package ledger

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// fakeNode is an in-memory Node for tests. Every submitted transaction
// confirms on the first receipt poll unless revertReason or neverConfirm is
// set.
type fakeNode struct {
	mu sync.Mutex

	count    uint64
	countErr error

	sent    []string
	sendErr error

	revertReason string
	neverConfirm bool

	callResult []byte
	callErr    error
}

func (n *fakeNode) TransactionCount(ctx context.Context, addr Address) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.countErr != nil {
		return 0, n.countErr
	}
	return n.count, nil
}

func (n *fakeNode) SendRawTransaction(ctx context.Context, raw string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return "", n.sendErr
	}
	n.sent = append(n.sent, raw)
	return fmt.Sprintf("0xtx%04d", len(n.sent)), nil
}

func (n *fakeNode) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.neverConfirm {
		return nil, nil
	}
	if n.revertReason != "" {
		return &Receipt{TxHash: txHash, Reverted: true, Reason: n.revertReason}, nil
	}
	return &Receipt{TxHash: txHash, BlockNumber: 7}, nil
}

func (n *fakeNode) Call(ctx context.Context, to Address, data []byte) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.callErr != nil {
		return nil, n.callErr
	}
	return n.callResult, nil
}

func (n *fakeNode) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// sentTx decodes the i-th submitted raw transaction back into its nonce and
// call data.
func (n *fakeNode) sentTx(t *testing.T, i int) (nonce uint64, data []byte) {
	t.Helper()
	n.mu.Lock()
	raw := n.sent[i]
	n.mu.Unlock()

	payload, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		t.Fatalf("decode raw transaction: %v", err)
	}
	// nonce(8) + from(20) + to(20) + len(4) + data + signature(64)
	header := 8 + 2*AddressLength + 4
	if len(payload) < header {
		t.Fatalf("raw transaction too short: %d bytes", len(payload))
	}
	nonce = binary.BigEndian.Uint64(payload)
	dataLen := int(binary.BigEndian.Uint32(payload[8+2*AddressLength:]))
	if len(payload) < header+dataLen {
		t.Fatalf("raw transaction truncated: want %d data bytes", dataLen)
	}
	return nonce, payload[header : header+dataLen]
}

func testAccount(t *testing.T) *Account {
	t.Helper()
	account, err := NewAccount("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cab7f60")
	if err != nil {
		t.Fatalf("test account: %v", err)
	}
	return account
}
