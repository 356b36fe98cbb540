package audit

import (
	"net/http"
	"strings"

	"github.com/JaligamRishitha/renewmart-sub000/internal/http/common"
	"github.com/JaligamRishitha/renewmart-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Trail *usecase.AuditTrail
}

func NewHandler(trail *usecase.AuditTrail) *Handler {
	return &Handler{Trail: trail}
}

func (h *Handler) HandleHistory(c *gin.Context) {
	subjectType := strings.TrimSpace(c.Query("subject_type"))
	subjectID := strings.TrimSpace(c.Query("subject_id"))
	if subjectType == "" || subjectID == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "subject_type and subject_id are required")
		return
	}
	entries, err := h.Trail.History(c.Request.Context(), subjectType, subjectID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	items := make([]common.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, common.ToAuditEntryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}
