package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerRouter(t *testing.T, node Node) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	contract, err := ParseAddress("0x00112233445566778899aabbccddeeff00112233")
	require.NoError(t, err)
	client := NewClient(node, testAccount(t), contract, ClientOptions{
		ConfirmTimeout: 200 * time.Millisecond,
		PollInterval:   5 * time.Millisecond,
	})
	router := gin.New()
	NewHandler(client).RegisterRoutes(router.Group("/"))
	return router
}

func TestHandlerAddVerifier(t *testing.T) {
	node := &fakeNode{}
	router := newHandlerRouter(t, node)

	body, _ := json.Marshal(map[string]string{"address": "0x99aabbccddeeff0011223344556677889900aabb"})
	req := httptest.NewRequest(http.MethodPost, "/ledger/verifiers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 1, node.sentCount())

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.NotEmpty(t, out["txHash"])
}

func TestHandlerAddVerifierValidation(t *testing.T) {
	router := newHandlerRouter(t, &fakeNode{})

	for name, payload := range map[string]string{
		"missing address": `{}`,
		"bad address":     `{"address":"0x1234"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ledger/verifiers", bytes.NewReader([]byte(payload)))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestHandlerRemoveVerifier(t *testing.T) {
	node := &fakeNode{}
	router := newHandlerRouter(t, node)

	req := httptest.NewRequest(http.MethodDelete, "/ledger/verifiers/0x99aabbccddeeff0011223344556677889900aabb", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 1, node.sentCount())
}

func TestHandlerRejectedVerifierCall(t *testing.T) {
	node := &fakeNode{revertReason: ReasonNotAuthorized}
	router := newHandlerRouter(t, node)

	body, _ := json.Marshal(map[string]string{"address": "0x99aabbccddeeff0011223344556677889900aabb"})
	req := httptest.NewRequest(http.MethodPost, "/ledger/verifiers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
}
