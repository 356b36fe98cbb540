package common

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
	"github.com/JaligamRishitha/renewmart-sub000/internal/http/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	principalKey = "principal"
	requestIDKey = "request_id"
)

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type RevisionResponse struct {
	ID               string  `json:"id"`
	LandID           string  `json:"land_id"`
	DocumentType     string  `json:"document_type"`
	VersionNumber    int     `json:"version_number"`
	IsLatest         bool    `json:"is_latest"`
	State            string  `json:"state"`
	ContentRef       string  `json:"content_ref"`
	UploadedBy       string  `json:"uploaded_by"`
	ChangeReason     string  `json:"change_reason,omitempty"`
	ParentRevisionID *string `json:"parent_revision_id,omitempty"`
	UploadedAt       string  `json:"uploaded_at"`
}

type AssignmentResponse struct {
	ID                 string  `json:"id"`
	RevisionID         string  `json:"revision_id"`
	AssignedTo         string  `json:"assigned_to"`
	AssignedBy         string  `json:"assigned_by"`
	ReviewerRole       string  `json:"reviewer_role"`
	Priority           string  `json:"priority"`
	DueDate            *string `json:"due_date,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	Status             string  `json:"status"`
	CompletionResult   *string `json:"completion_result,omitempty"`
	CompletionComments string  `json:"completion_comments,omitempty"`
	CancelReason       string  `json:"cancel_reason,omitempty"`
	CreatedAt          string  `json:"created_at"`
	StartedAt          *string `json:"started_at,omitempty"`
	CompletedAt        *string `json:"completed_at,omitempty"`
}

type SummaryResponse struct {
	DocumentType  string  `json:"document_type"`
	LatestVersion int     `json:"latest_version"`
	LatestState   string  `json:"latest_state"`
	RevisionCount int     `json:"revision_count"`
	Locked        bool    `json:"locked"`
	LockedBy      string  `json:"locked_by,omitempty"`
	LastResult    *string `json:"last_result,omitempty"`
}

type AuditEntryResponse struct {
	ID          string `json:"id"`
	SubjectType string `json:"subject_type"`
	SubjectID   string `json:"subject_id"`
	Action      string `json:"action"`
	ActorID     string `json:"actor_id"`
	Reason      string `json:"reason,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type Authenticator interface {
	Authenticate(*gin.Context) (docs.Principal, error)
}

func AuthMiddleware(authenticator Authenticator, authorizer docs.Authorizer, permission string, requireRequestID bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticator == nil || authorizer == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL", Message: "auth misconfigured"})
			return
		}
		principal, err := authenticator.Authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication failed"})
			return
		}
		if err := authorizer.Require(principal, permission); err != nil {
			if errors.Is(err, docs.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication failed"})
				return
			}
			if authz, ok := auth.IsAuthzError(err); ok {
				c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Code: authz.Code, Message: "forbidden"})
				return
			}
			WriteError(c, err)
			c.Abort()
			return
		}
		c.Set(principalKey, principal)
		requestID := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if requestID != "" {
			c.Set(requestIDKey, requestID)
		}
		if requireRequestID && requestID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: "MISSING_REQUEST_ID", Message: "X-Request-ID required"})
			return
		}
		c.Next()
	}
}

func PrincipalFromContext(c *gin.Context) (docs.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		WriteErrorCode(c, http.StatusInternalServerError, "INTERNAL", "principal missing")
		return docs.Principal{}, false
	}
	principal, ok := value.(docs.Principal)
	if !ok {
		WriteErrorCode(c, http.StatusInternalServerError, "INTERNAL", "principal invalid")
		return docs.Principal{}, false
	}
	return principal, true
}

func RequestID(c *gin.Context) string {
	if value, ok := c.Get(requestIDKey); ok {
		if requestID, ok := value.(string); ok {
			return strings.TrimSpace(requestID)
		}
	}
	return strings.TrimSpace(c.GetHeader("X-Request-ID"))
}

// BindOptionalJSON decodes the request body into out when one is present.
// An absent body leaves out at its zero values, for actions whose fields are
// all optional. Returns false after writing the error response when a body
// is present but malformed.
func BindOptionalJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		WriteErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return false
	}
	return true
}

func ParseUUIDParam(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", name+" is required")
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", name+" must be a UUID")
		return "", false
	}
	return value, true
}

func ToRevisionResponse(rev docs.Revision) RevisionResponse {
	return RevisionResponse{
		ID:               rev.ID,
		LandID:           rev.LandID,
		DocumentType:     rev.DocumentType,
		VersionNumber:    rev.VersionNumber,
		IsLatest:         rev.IsLatest,
		State:            string(rev.State),
		ContentRef:       rev.ContentRef,
		UploadedBy:       rev.UploadedBy,
		ChangeReason:     rev.ChangeReason,
		ParentRevisionID: rev.ParentRevisionID,
		UploadedAt:       formatTime(rev.UploadedAt),
	}
}

func ToAssignmentResponse(asg docs.Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:                 asg.ID,
		RevisionID:         asg.RevisionID,
		AssignedTo:         asg.AssignedTo,
		AssignedBy:         asg.AssignedBy,
		ReviewerRole:       asg.ReviewerRole,
		Priority:           asg.Priority,
		Notes:              asg.Notes,
		Status:             string(asg.Status),
		CompletionComments: asg.CompletionComments,
		CancelReason:       asg.CancelReason,
		CreatedAt:          formatTime(asg.CreatedAt),
		DueDate:            formatTimePtr(asg.DueDate),
		StartedAt:          formatTimePtr(asg.StartedAt),
		CompletedAt:        formatTimePtr(asg.CompletedAt),
	}
	if asg.CompletionResult != nil {
		result := string(*asg.CompletionResult)
		resp.CompletionResult = &result
	}
	return resp
}

func ToSummaryResponse(summary docs.DocumentSummary) SummaryResponse {
	resp := SummaryResponse{
		DocumentType:  summary.DocumentType,
		LatestVersion: summary.LatestVersion,
		LatestState:   string(summary.LatestState),
		RevisionCount: summary.RevisionCount,
		Locked:        summary.Locked,
		LockedBy:      summary.LockedBy,
	}
	if summary.LastResult != nil {
		result := string(*summary.LastResult)
		resp.LastResult = &result
	}
	return resp
}

func ToAuditEntryResponse(entry docs.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:          entry.ID,
		SubjectType: string(entry.SubjectType),
		SubjectID:   entry.SubjectID,
		Action:      string(entry.Action),
		ActorID:     entry.ActorID,
		Reason:      entry.Reason,
		RequestID:   entry.RequestID,
		CreatedAt:   formatTime(entry.CreatedAt),
	}
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := formatTime(*value)
	return &formatted
}

func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, docs.ErrUnauthorized):
		WriteErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	case errors.Is(err, docs.ErrForbidden):
		WriteErrorCode(c, http.StatusForbidden, "FORBIDDEN", "forbidden")
	case errors.Is(err, docs.ErrRoleMismatch):
		WriteErrorCode(c, http.StatusForbidden, "ROLE_MISMATCH", "reviewer lacks required role")
	case errors.Is(err, docs.ErrNotFound):
		WriteErrorCode(c, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, docs.ErrAlreadyLocked):
		WriteErrorCode(c, http.StatusConflict, "ALREADY_LOCKED", "revision is locked for review")
	case errors.Is(err, docs.ErrAlreadyArchived):
		WriteErrorCode(c, http.StatusConflict, "ALREADY_ARCHIVED", "revision is archived")
	case errors.Is(err, docs.ErrInvalidState):
		WriteErrorCode(c, http.StatusConflict, "INVALID_STATE", "transition not allowed from current state")
	case errors.Is(err, docs.ErrConflict):
		WriteErrorCode(c, http.StatusConflict, "CONFLICT", "conflict")
	case errors.Is(err, docs.ErrInvalidArgument):
		WriteErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid argument")
	default:
		WriteErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func WriteErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}
