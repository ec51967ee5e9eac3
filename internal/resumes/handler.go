package resumes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resume-ledger/internal/ledger"
	"resume-ledger/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
	rg.POST("/resumes/:id/verify", h.verify)
	rg.GET("/resumes/:id/ledger", h.ledgerSnapshot)
	rg.POST("/resumes/sync/:hash", h.sync)
}

// resumeRequest carries the writable fields. Length limits follow the
// original validation rules.
type resumeRequest struct {
	Name           string `json:"name" binding:"required,max=50"`
	Email          string `json:"email" binding:"required,email,max=100"`
	Phone          string `json:"phone" binding:"max=30"`
	Education      string `json:"education" binding:"required,max=1000"`
	WorkExperience string `json:"workExperience" binding:"required,max=2000"`
	Skills         string `json:"skills" binding:"required,max=1000"`
	BlobRef        string `json:"blobRef" binding:"max=200"`
}

func (r resumeRequest) fields() Fields {
	return Fields{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Education:      r.Education,
		WorkExperience: r.WorkExperience,
		Skills:         r.Skills,
		BlobRef:        r.BlobRef,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume payload", err.Error())
		return
	}

	resume, err := h.Svc.Create(c.Request.Context(), req.fields())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Set("resumeId", resume.ID)
	respond.JSON(c, http.StatusCreated, resume)
}

func (h *Handler) get(c *gin.Context) {
	resume, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond.OK(c, resume)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if out == nil {
		out = []Resume{}
	}
	respond.OK(c, out)
}

func (h *Handler) update(c *gin.Context) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume payload", err.Error())
		return
	}

	resume, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.fields())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond.OK(c, resume)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type verifyRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes" binding:"max=1000"`
}

func (h *Handler) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "status is required", nil)
		return
	}

	// The status rides as the wire ordinal: 0 pending, 1 verified, 2 rejected.
	ordinal, err := strconv.Atoi(req.Status)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			"status must be numeric: 0 (pending), 1 (verified) or 2 (rejected)", nil)
		return
	}
	status, err := ledger.StatusFromOrdinal(ordinal)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error",
			"status must be 0 (pending), 1 (verified) or 2 (rejected)", nil)
		return
	}

	resume, err := h.Svc.Verify(c.Request.Context(), c.Param("id"), status, req.Notes)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Set("statusTransition", resume.Status)
	respond.OK(c, resume)
}

// snapshotResponse mirrors the ledger-held tuple.
type snapshotResponse struct {
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Education      string     `json:"education"`
	WorkExperience string     `json:"workExperience"`
	Skills         string     `json:"skills"`
	BlobRef        string     `json:"blobRef,omitempty"`
	StoredAt       time.Time  `json:"storedAt"`
	Owner          string     `json:"owner"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	VerifiedAt     *time.Time `json:"verifiedAt,omitempty"`
}

func (h *Handler) ledgerSnapshot(c *gin.Context) {
	snap, err := h.Svc.LedgerSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := snapshotResponse{
		Name:           snap.Name,
		Email:          snap.Email,
		Education:      snap.Education,
		WorkExperience: snap.Experience,
		Skills:         snap.Skills,
		BlobRef:        snap.BlobRef,
		StoredAt:       snap.StoredAt,
		Owner:          snap.Owner.Hex(),
		Status:         snap.Status.String(),
		Notes:          snap.Notes,
	}
	if !snap.VerifiedAt.IsZero() {
		verifiedAt := snap.VerifiedAt
		resp.VerifiedAt = &verifiedAt
	}
	respond.OK(c, resp)
}

func (h *Handler) sync(c *gin.Context) {
	resume, err := h.Svc.Sync(c.Request.Context(), c.Param("hash"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	respond.OK(c, resume)
}

func writeServiceError(c *gin.Context, err error) {
	var ledgerErr *ledger.Error
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ledger.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInconsistentState):
		respond.Error(c, http.StatusConflict, "inconsistent_state", err.Error(), nil)
	case errors.Is(err, ledger.ErrAlreadyStored):
		respond.Error(c, http.StatusConflict, "already_stored", "identifier already on the ledger", nil)
	case errors.Is(err, ledger.ErrUnavailable), errors.Is(err, ledger.ErrTimeout):
		respond.Error(c, http.StatusServiceUnavailable, "ledger_unavailable", "ledger node unavailable", nil)
	case errors.As(err, &ledgerErr) && ledgerErr.Kind == ledger.KindRejected:
		respond.Error(c, http.StatusUnprocessableEntity, "ledger_rejected", ledgerErr.Reason, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "operation failed", nil)
	}
}
