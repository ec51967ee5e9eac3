package ledger

import (
	"context"
	"time"
)

// ObservedNode wraps a Node with metrics instrumentation.
type ObservedNode struct {
	node       Node
	rpcMetrics RPCMetrics
}

// NewObservedNode constructs an instrumented node client.
func NewObservedNode(node Node, rpcMetrics RPCMetrics) *ObservedNode {
	return &ObservedNode{node: node, rpcMetrics: rpcMetrics}
}

func (o *ObservedNode) TransactionCount(ctx context.Context, addr Address) (count uint64, err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("get_transaction_count", err, started)
	}()
	return o.node.TransactionCount(ctx, addr)
}

func (o *ObservedNode) SendRawTransaction(ctx context.Context, raw string) (txHash string, err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("send_raw_transaction", err, started)
	}()
	return o.node.SendRawTransaction(ctx, raw)
}

func (o *ObservedNode) TransactionReceipt(ctx context.Context, txHash string) (receipt *Receipt, err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("get_transaction_receipt", err, started)
	}()
	return o.node.TransactionReceipt(ctx, txHash)
}

func (o *ObservedNode) Call(ctx context.Context, to Address, data []byte) (result []byte, err error) {
	started := time.Now()
	defer func() {
		o.rpcMetrics.Observe("call", err, started)
	}()
	return o.node.Call(ctx, to, data)
}
