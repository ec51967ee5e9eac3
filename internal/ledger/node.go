package ledger

import (
	"context"
	"time"
)

// Node is the call surface of the ledger node's RPC transport. The rest of
// the package treats the node as opaque: it submits signed payloads, polls
// for receipts, and executes read-only calls.
type Node interface {
	// TransactionCount returns the account's confirmed transaction count.
	TransactionCount(ctx context.Context, addr Address) (uint64, error)
	// SendRawTransaction submits a signed transaction and returns its hash.
	SendRawTransaction(ctx context.Context, raw string) (string, error)
	// TransactionReceipt returns the receipt for a transaction hash, or
	// (nil, nil) while the transaction is still pending.
	TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error)
	// Call executes a read-only contract function and returns the raw
	// encoded result.
	Call(ctx context.Context, to Address, data []byte) ([]byte, error)
}

// Receipt is the node's confirmation artifact for an included transaction.
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	BlockTime   time.Time
	Reverted    bool
	// Reason carries the contract's revert reason when Reverted is true.
	Reason string
}

// RPCMetrics records the outcome and duration of node RPC operations.
type RPCMetrics interface {
	Observe(operation string, err error, started time.Time)
}
