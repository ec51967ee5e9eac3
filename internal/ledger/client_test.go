package ledger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, node Node) *Client {
	t.Helper()
	contract, err := ParseAddress("0x00112233445566778899aabbccddeeff00112233")
	require.NoError(t, err)
	return NewClient(node, testAccount(t), contract, ClientOptions{
		ConfirmTimeout: 200 * time.Millisecond,
		PollInterval:   5 * time.Millisecond,
	})
}

func TestClientStoreConfirms(t *testing.T) {
	node := &fakeNode{}
	client := newTestClient(t, node)

	receipt, err := client.Store(context.Background(), "id-1", "Jane", "jane@example.com", "BSc", "5y", "Go", "")
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, uint64(7), receipt.BlockNumber)

	require.Equal(t, 1, node.sentCount())
	nonce, data := node.sentTx(t, 0)
	assert.Equal(t, uint64(1), nonce)
	sel := selector(sigStore)
	assert.True(t, bytes.Equal(data[:4], sel[:]), "call data must start with the store selector")
}

func TestClientNoncesIncrementAcrossCalls(t *testing.T) {
	node := &fakeNode{}
	client := newTestClient(t, node)
	ctx := context.Background()

	_, err := client.Store(ctx, "id-1", "a", "b", "c", "d", "e", "")
	require.NoError(t, err)
	_, err = client.Update(ctx, "id-1", "a2", "b", "c", "d", "e", "")
	require.NoError(t, err)
	_, err = client.Verify(ctx, "id-1", StatusVerified, "ok")
	require.NoError(t, err)

	require.Equal(t, 3, node.sentCount())
	for i := 0; i < 3; i++ {
		nonce, _ := node.sentTx(t, i)
		assert.Equal(t, uint64(i+1), nonce)
	}
}

func TestClientRevertReasonsMapToErrors(t *testing.T) {
	cases := []struct {
		reason string
		check  func(t *testing.T, err error)
	}{
		{ReasonAlreadyStored, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrAlreadyStored)
		}},
		{ReasonNotFound, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNotFound)
		}},
		{ReasonNotAuthorized, func(t *testing.T, err error) {
			var lerr *Error
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, KindRejected, lerr.Kind)
			assert.Equal(t, ReasonNotAuthorized, lerr.Reason)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.reason, func(t *testing.T) {
			node := &fakeNode{revertReason: tc.reason}
			client := newTestClient(t, node)
			_, err := client.Store(context.Background(), "id-1", "a", "b", "c", "d", "e", "")
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClientRevertConsumesNonce(t *testing.T) {
	node := &fakeNode{revertReason: ReasonAlreadyStored}
	client := newTestClient(t, node)
	ctx := context.Background()

	_, err := client.Store(ctx, "id-1", "a", "b", "c", "d", "e", "")
	require.ErrorIs(t, err, ErrAlreadyStored)

	node.mu.Lock()
	node.revertReason = ""
	node.mu.Unlock()

	_, err = client.Store(ctx, "id-2", "a", "b", "c", "d", "e", "")
	require.NoError(t, err)

	require.Equal(t, 2, node.sentCount())
	first, _ := node.sentTx(t, 0)
	second, _ := node.sentTx(t, 1)
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second, "retry after revert must use a fresh nonce")
}

func TestClientConfirmationTimeout(t *testing.T) {
	node := &fakeNode{neverConfirm: true}
	client := newTestClient(t, node)

	_, err := client.Store(context.Background(), "id-1", "a", "b", "c", "d", "e", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClientVerifyEncodesOrdinal(t *testing.T) {
	node := &fakeNode{}
	client := newTestClient(t, node)

	_, err := client.Verify(context.Background(), "id-1", StatusRejected, "forged degree")
	require.NoError(t, err)

	_, data := node.sentTx(t, 0)
	assert.Equal(t, encodeVerify("id-1", StatusRejected, "forged degree"), data)
}

func TestClientGetDecodesSnapshot(t *testing.T) {
	want := RecordSnapshot{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Education:  "BSc",
		Experience: "5y",
		Skills:     "Go",
		StoredAt:   time.Unix(1700000000, 0).UTC(),
		Status:     StatusPending,
	}
	node := &fakeNode{callResult: encodeSnapshot(want)}
	client := newTestClient(t, node)

	got, err := client.Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Zero(t, node.sentCount(), "reads must not submit transactions")
}

func TestClientGetPropagatesCallError(t *testing.T) {
	node := &fakeNode{callErr: rejected(ReasonNotFound)}
	client := newTestClient(t, node)

	_, err := client.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientGetGarbageResultIsUnavailable(t *testing.T) {
	node := &fakeNode{callResult: []byte{0xff, 0x01}}
	client := newTestClient(t, node)

	_, err := client.Get(context.Background(), "id-1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientVerifierAdmin(t *testing.T) {
	node := &fakeNode{}
	client := newTestClient(t, node)
	ctx := context.Background()

	addr, err := ParseAddress("0x99aabbccddeeff0011223344556677889900aabb")
	require.NoError(t, err)

	_, err = client.AddVerifier(ctx, addr)
	require.NoError(t, err)
	_, err = client.RemoveVerifier(ctx, addr)
	require.NoError(t, err)

	_, addData := node.sentTx(t, 0)
	assert.Equal(t, encodeAddVerifier(addr), addData)
	_, removeData := node.sentTx(t, 1)
	assert.Equal(t, encodeRemoveVerifier(addr), removeData)
}
