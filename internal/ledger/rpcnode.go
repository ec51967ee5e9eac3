package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/ratelimit"
)

// RPC error codes reported by the node.
const (
	rpcCodeNotFound = -32001
	rpcCodeReverted = -32015
)

// RPCNode talks JSON-RPC 2.0 to a ledger node over HTTP. Every call is
// bounded by the configured request timeout and paced by a shared rate
// limiter so a hot sync loop cannot starve the node.
type RPCNode struct {
	endpoint string
	client   *http.Client
	limiter  ratelimit.Limiter
	nextID   atomic.Uint64
}

// RPCNodeOptions controls transport behavior.
type RPCNodeOptions struct {
	// RequestTimeout bounds a single HTTP round trip. Defaults to 10s.
	RequestTimeout time.Duration
	// RequestsPerSecond paces outgoing calls. Defaults to 50.
	RequestsPerSecond int
}

// NewRPCNode constructs an RPCNode for the given endpoint URL.
func NewRPCNode(endpoint string, opts RPCNodeOptions) *RPCNode {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 50
	}
	return &RPCNode{
		endpoint: endpoint,
		client:   &http.Client{Timeout: opts.RequestTimeout},
		limiter:  ratelimit.New(opts.RequestsPerSecond),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (n *RPCNode) call(ctx context.Context, method string, params []any, out any) error {
	n.limiter.Take()

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      n.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unavailable(fmt.Errorf("%s: node returned HTTP %d", method, resp.StatusCode))
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return unavailable(fmt.Errorf("decode %s response: %w", method, err))
	}
	if envelope.Error != nil {
		return mapRPCError(envelope.Error)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return unavailable(fmt.Errorf("decode %s result: %w", method, err))
		}
	}
	return nil
}

func mapRPCError(e *rpcError) error {
	switch e.Code {
	case rpcCodeNotFound:
		return &Error{Kind: KindNotFound, Reason: e.Message}
	case rpcCodeReverted:
		return rejected(revertReason(e.Message))
	}
	return unavailable(fmt.Errorf("rpc error %d: %s", e.Code, e.Message))
}

// revertReason strips the node's "execution reverted: " prefix if present.
func revertReason(message string) string {
	const prefix = "execution reverted"
	rest := strings.TrimPrefix(message, prefix)
	return strings.TrimSpace(strings.TrimPrefix(rest, ":"))
}

// TransactionCount returns the confirmed transaction count for an address.
func (n *RPCNode) TransactionCount(ctx context.Context, addr Address) (uint64, error) {
	var count uint64
	if err := n.call(ctx, "ledger_getTransactionCount", []any{addr.Hex()}, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// SendRawTransaction submits a signed transaction and returns its hash.
func (n *RPCNode) SendRawTransaction(ctx context.Context, raw string) (string, error) {
	var txHash string
	if err := n.call(ctx, "ledger_sendRawTransaction", []any{raw}, &txHash); err != nil {
		return "", err
	}
	return txHash, nil
}

type rpcReceipt struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	BlockTime   int64  `json:"blockTime"`
	Reverted    bool   `json:"reverted"`
	Reason      string `json:"reason"`
}

// TransactionReceipt returns the receipt for txHash, or (nil, nil) while the
// transaction is still pending.
func (n *RPCNode) TransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	var raw *rpcReceipt
	err := n.call(ctx, "ledger_getTransactionReceipt", []any{txHash}, &raw)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return &Receipt{
		TxHash:      raw.TxHash,
		BlockNumber: raw.BlockNumber,
		BlockTime:   time.Unix(raw.BlockTime, 0).UTC(),
		Reverted:    raw.Reverted,
		Reason:      raw.Reason,
	}, nil
}

// Call executes a read-only contract function.
func (n *RPCNode) Call(ctx context.Context, to Address, data []byte) ([]byte, error) {
	var result string
	if err := n.call(ctx, "ledger_call", []any{to.Hex(), "0x" + hex.EncodeToString(data)}, &result); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil {
		return nil, unavailable(fmt.Errorf("decode call result: %w", err))
	}
	return raw, nil
}
