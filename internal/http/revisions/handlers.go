package revisions

import (
	"net/http"
	"strings"

	"github.com/JaligamRishitha/renewmart-sub000/internal/http/common"
	"github.com/JaligamRishitha/renewmart-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Versions *usecase.VersionService
	Reviews  *usecase.ReviewService
}

type listResponse struct {
	Items []common.RevisionResponse `json:"items"`
}

func NewHandler(versions *usecase.VersionService, reviews *usecase.ReviewService) *Handler {
	return &Handler{Versions: versions, Reviews: reviews}
}

func (h *Handler) HandleCreateRevision(c *gin.Context) {
	principal, ok := common.PrincipalFromContext(c)
	if !ok {
		return
	}
	var req struct {
		LandID       string `json:"land_id"`
		DocumentType string `json:"document_type"`
		ContentRef   string `json:"content_reference"`
		UploadedBy   string `json:"uploaded_by"`
		ChangeReason string `json:"change_reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.LandID == "" || req.DocumentType == "" || req.ContentRef == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "land_id, document_type, content_reference are required")
		return
	}
	uploadedBy := strings.TrimSpace(req.UploadedBy)
	if uploadedBy == "" {
		uploadedBy = principal.Subject
	}
	rev, err := h.Versions.CreateRevision(c.Request.Context(), usecase.CreateRevisionInput{
		LandID:       req.LandID,
		DocumentType: req.DocumentType,
		ContentRef:   req.ContentRef,
		UploadedBy:   uploadedBy,
		ChangeReason: req.ChangeReason,
		RequestID:    common.RequestID(c),
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"revision": common.ToRevisionResponse(rev)})
}

func (h *Handler) HandleGetRevision(c *gin.Context) {
	revisionID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	rev, err := h.Versions.GetRevision(c.Request.Context(), revisionID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revision": common.ToRevisionResponse(rev)})
}

func (h *Handler) HandleGetLatest(c *gin.Context) {
	landID := strings.TrimSpace(c.Query("land_id"))
	documentType := strings.TrimSpace(c.Query("document_type"))
	if landID == "" || documentType == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "land_id and document_type are required")
		return
	}
	rev, err := h.Versions.GetLatest(c.Request.Context(), landID, documentType)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revision": common.ToRevisionResponse(rev)})
}

func (h *Handler) HandleListVersions(c *gin.Context) {
	landID := strings.TrimSpace(c.Query("land_id"))
	documentType := strings.TrimSpace(c.Query("document_type"))
	if landID == "" || documentType == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "land_id and document_type are required")
		return
	}
	revs, err := h.Versions.ListVersions(c.Request.Context(), landID, documentType)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	items := make([]common.RevisionResponse, 0, len(revs))
	for _, rev := range revs {
		items = append(items, common.ToRevisionResponse(rev))
	}
	c.JSON(http.StatusOK, listResponse{Items: items})
}

func (h *Handler) HandleArchive(c *gin.Context) {
	principal, ok := common.PrincipalFromContext(c)
	if !ok {
		return
	}
	revisionID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if !common.BindOptionalJSON(c, &req) {
		return
	}
	rev, err := h.Versions.Archive(c.Request.Context(), usecase.ArchiveInput{
		RevisionID: revisionID,
		Reason:     req.Reason,
		RequestID:  common.RequestID(c),
		Actor:      usecase.Actor{ID: principal.Subject},
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revision": common.ToRevisionResponse(rev)})
}

func (h *Handler) HandleUnlock(c *gin.Context) {
	principal, ok := common.PrincipalFromContext(c)
	if !ok {
		return
	}
	revisionID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if !common.BindOptionalJSON(c, &req) {
		return
	}
	rev, err := h.Reviews.Unlock(c.Request.Context(), usecase.UnlockInput{
		RevisionID: revisionID,
		Reason:     req.Reason,
		RequestID:  common.RequestID(c),
		Actor:      usecase.Actor{ID: principal.Subject},
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revision": common.ToRevisionResponse(rev)})
}
