package ledger

import (
	"context"
	"time"

	"resume-ledger/internal/shared/telemetry"
)

// Client exposes the resume verification contract's function set. Mutating
// calls obtain a nonce from the sequencer, submit a signed transaction and
// block until the node reports inclusion. A reverted or timed-out
// transaction has still consumed its nonce; retries must go through the
// sequencer again.
type Client struct {
	node     Node
	account  *Account
	nonces   *NonceSequencer
	contract Address

	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// ClientOptions controls confirmation behavior.
type ClientOptions struct {
	// ConfirmTimeout bounds the inclusion wait per transaction. Defaults
	// to 30s.
	ConfirmTimeout time.Duration
	// PollInterval is the receipt polling cadence. Defaults to 500ms.
	PollInterval time.Duration
}

// NewClient constructs a Client bound to one contract and one signing
// account.
func NewClient(node Node, account *Account, contract Address, opts ClientOptions) *Client {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = 30 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	return &Client{
		node:           node,
		account:        account,
		nonces:         NewNonceSequencer(node, account.Address()),
		contract:       contract,
		confirmTimeout: opts.ConfirmTimeout,
		pollInterval:   opts.PollInterval,
	}
}

// Owner returns the signing account's address.
func (c *Client) Owner() Address {
	return c.account.Address()
}

// Store records a new resume under its content identifier.
func (c *Client) Store(ctx context.Context, identifier, name, email, education, experience, skills, blobRef string) (*Receipt, error) {
	return c.submit(ctx, "store", identifier,
		encodeStore(identifier, name, email, education, experience, skills, blobRef))
}

// Update overwrites the fields held under an existing identifier. The
// identifier itself never changes.
func (c *Client) Update(ctx context.Context, identifier, name, email, education, experience, skills, blobRef string) (*Receipt, error) {
	return c.submit(ctx, "update", identifier,
		encodeUpdate(identifier, name, email, education, experience, skills, blobRef))
}

// Verify sets the verification status and notes for an identifier.
func (c *Client) Verify(ctx context.Context, identifier string, status Status, notes string) (*Receipt, error) {
	return c.submit(ctx, "verify", identifier, encodeVerify(identifier, status, notes))
}

// Get returns the ledger-held snapshot for an identifier. Read-only: no
// nonce is consumed.
func (c *Client) Get(ctx context.Context, identifier string) (RecordSnapshot, error) {
	raw, err := c.node.Call(ctx, c.contract, encodeGet(identifier))
	if err != nil {
		return RecordSnapshot{}, err
	}
	snap, err := decodeSnapshot(raw)
	if err != nil {
		return RecordSnapshot{}, unavailable(err)
	}
	return snap, nil
}

// AddVerifier authorizes an address to verify resumes.
func (c *Client) AddVerifier(ctx context.Context, addr Address) (*Receipt, error) {
	return c.submit(ctx, "add_verifier", addr.Hex(), encodeAddVerifier(addr))
}

// RemoveVerifier revokes a verifier authorization.
func (c *Client) RemoveVerifier(ctx context.Context, addr Address) (*Receipt, error) {
	return c.submit(ctx, "remove_verifier", addr.Hex(), encodeRemoveVerifier(addr))
}

// submit runs one mutating call end to end: nonce, sign, send, await
// inclusion.
func (c *Client) submit(ctx context.Context, operation, key string, data []byte) (*Receipt, error) {
	nonce, err := c.nonces.Next(ctx)
	if err != nil {
		return nil, err
	}

	raw := Transaction{
		Nonce: nonce,
		From:  c.account.Address(),
		To:    c.contract,
		Data:  data,
	}.Sign(c.account)

	txHash, err := c.node.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, err
	}

	receipt, err := c.awaitInclusion(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		telemetry.Error("ledger.tx.reverted", map[string]any{
			"operation": operation,
			"key":       key,
			"tx_hash":   txHash,
			"nonce":     nonce,
			"reason":    receipt.Reason,
		})
		return nil, rejected(receipt.Reason)
	}

	telemetry.Info("ledger.tx.confirmed", map[string]any{
		"operation": operation,
		"key":       key,
		"tx_hash":   txHash,
		"nonce":     nonce,
		"block":     receipt.BlockNumber,
	})
	return receipt, nil
}

// awaitInclusion polls for a receipt until the confirm timeout. On timeout
// the transaction may still confirm later; the nonce is gone either way.
func (c *Client) awaitInclusion(ctx context.Context, txHash string) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.node.TransactionReceipt(ctx, txHash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, &Error{Kind: KindTimeout, Reason: txHash, Cause: ctx.Err()}
		case <-ticker.C:
		}
	}
}
