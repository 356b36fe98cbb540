package assignments

import (
	"net/http"
	"strings"
	"time"

	"github.com/JaligamRishitha/renewmart-sub000/internal/http/common"
	"github.com/JaligamRishitha/renewmart-sub000/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Reviews *usecase.ReviewService
}

func NewHandler(reviews *usecase.ReviewService) *Handler {
	return &Handler{Reviews: reviews}
}

func (h *Handler) HandleCreateAssignment(c *gin.Context) {
	principal, ok := common.PrincipalFromContext(c)
	if !ok {
		return
	}
	var req struct {
		RevisionID   string `json:"revision_id"`
		AssignedTo   string `json:"assigned_to"`
		AssignedBy   string `json:"assigned_by,omitempty"`
		ReviewerRole string `json:"reviewer_role"`
		Priority     string `json:"priority,omitempty"`
		DueDate      string `json:"due_date,omitempty"`
		Notes        string `json:"notes,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.RevisionID == "" || req.AssignedTo == "" || req.ReviewerRole == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "revision_id, assigned_to, reviewer_role are required")
		return
	}
	var dueDate *time.Time
	if raw := strings.TrimSpace(req.DueDate); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "due_date must be RFC3339")
			return
		}
		dueDate = &parsed
	}
	assignedBy := strings.TrimSpace(req.AssignedBy)
	if assignedBy == "" {
		assignedBy = principal.Subject
	}
	asg, err := h.Reviews.Assign(c.Request.Context(), usecase.AssignInput{
		RevisionID:   req.RevisionID,
		AssignedTo:   req.AssignedTo,
		AssignedBy:   assignedBy,
		ReviewerRole: req.ReviewerRole,
		Priority:     req.Priority,
		DueDate:      dueDate,
		Notes:        req.Notes,
		RequestID:    common.RequestID(c),
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": common.ToAssignmentResponse(asg)})
}

func (h *Handler) HandleGetAssignment(c *gin.Context) {
	assignmentID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	asg, err := h.Reviews.GetAssignment(c.Request.Context(), assignmentID)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": common.ToAssignmentResponse(asg)})
}

func (h *Handler) HandleStart(c *gin.Context) {
	principal, ok := common.PrincipalFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	asg, err := h.Reviews.Start(c.Request.Context(), usecase.StartInput{
		AssignmentID: assignmentID,
		RequestID:    common.RequestID(c),
		Actor:        usecase.Actor{ID: principal.Subject},
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": common.ToAssignmentResponse(asg)})
}

func (h *Handler) HandleComplete(c *gin.Context) {
	principal, ok := common.PrincipalFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Result   string `json:"result"`
		Comments string `json:"comments,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.Result == "" {
		common.WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "result is required")
		return
	}
	asg, err := h.Reviews.Complete(c.Request.Context(), usecase.CompleteInput{
		AssignmentID: assignmentID,
		Result:       req.Result,
		Comments:     req.Comments,
		RequestID:    common.RequestID(c),
		Actor:        usecase.Actor{ID: principal.Subject},
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": common.ToAssignmentResponse(asg)})
}

func (h *Handler) HandleCancel(c *gin.Context) {
	principal, ok := common.PrincipalFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if !common.BindOptionalJSON(c, &req) {
		return
	}
	asg, err := h.Reviews.Cancel(c.Request.Context(), usecase.CancelInput{
		AssignmentID: assignmentID,
		Reason:       req.Reason,
		RequestID:    common.RequestID(c),
		Actor:        usecase.Actor{ID: principal.Subject},
	})
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": common.ToAssignmentResponse(asg)})
}
