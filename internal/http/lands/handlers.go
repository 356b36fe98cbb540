package lands

import (
	"net/http"

	"github.com/JaligamRishitha/renewmart-sub000/internal/http/common"
	"github.com/JaligamRishitha/renewmart-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Summaries *usecase.SummaryService
}

func NewHandler(summaries *usecase.SummaryService) *Handler {
	return &Handler{Summaries: summaries}
}

func (h *Handler) HandleStatusSummary(c *gin.Context) {
	landID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	summaries, err := h.Summaries.Summarize(c.Request.Context(), landID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	items := make([]common.SummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, common.ToSummaryResponse(summary))
	}
	c.JSON(http.StatusOK, gin.H{"land_id": landID, "documents": items})
}
