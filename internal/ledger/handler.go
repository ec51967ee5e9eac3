package ledger

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ledger/internal/shared/server/respond"
)

// Handler exposes the contract's verifier-set administration.
type Handler struct {
	Client *Client
}

// NewHandler constructs a Handler.
func NewHandler(client *Client) *Handler {
	return &Handler{Client: client}
}

// RegisterRoutes attaches verifier admin routes to the router group. The
// group is expected to be guarded by the admin-token middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ledger/verifiers", h.addVerifier)
	rg.DELETE("/ledger/verifiers/:address", h.removeVerifier)
}

type addVerifierRequest struct {
	Address string `json:"address" binding:"required"`
}

func (h *Handler) addVerifier(c *gin.Context) {
	var req addVerifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "address is required", nil)
		return
	}

	addr, err := ParseAddress(req.Address)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid verifier address", nil)
		return
	}

	receipt, err := h.Client.AddVerifier(c.Request.Context(), addr)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"txHash": receipt.TxHash, "block": receipt.BlockNumber})
}

func (h *Handler) removeVerifier(c *gin.Context) {
	addr, err := ParseAddress(c.Param("address"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid verifier address", nil)
		return
	}

	receipt, err := h.Client.RemoveVerifier(c.Request.Context(), addr)
	if err != nil {
		writeLedgerError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"txHash": receipt.TxHash, "block": receipt.BlockNumber})
}

func writeLedgerError(c *gin.Context, err error) {
	var ledgerErr *Error
	switch {
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrTimeout):
		respond.Error(c, http.StatusServiceUnavailable, "ledger_unavailable", "ledger node unavailable", nil)
	case errors.As(err, &ledgerErr) && ledgerErr.Kind == KindRejected:
		respond.Error(c, http.StatusUnprocessableEntity, "ledger_rejected", ledgerErr.Reason, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "ledger operation failed", nil)
	}
}
