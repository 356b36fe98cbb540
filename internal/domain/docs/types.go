package docs

import (
	"context"
	"errors"
	"time"
)

type RevisionState string

const (
	StateActive   RevisionState = "active"
	StateLocked   RevisionState = "locked"
	StateArchived RevisionState = "archived"
)

type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

type ReviewResult string

const (
	ResultApproved         ReviewResult = "approved"
	ResultRejected         ReviewResult = "rejected"
	ResultChangesRequested ReviewResult = "changes_requested"
)

type SubjectType string

const (
	SubjectRevision   SubjectType = "revision"
	SubjectAssignment SubjectType = "assignment"
)

type AuditAction string

const (
	ActionUploaded         AuditAction = "uploaded"
	ActionLocked           AuditAction = "locked"
	ActionUnlocked         AuditAction = "unlocked"
	ActionApproved         AuditAction = "approved"
	ActionRejected         AuditAction = "rejected"
	ActionChangesRequested AuditAction = "changes_requested"
	ActionArchived         AuditAction = "archived"
	ActionCancelled        AuditAction = "cancelled"
)

// Revision is one uploaded instance of a document for a (land, document type)
// pair. Rows are immutable except for the latest flag and lifecycle state.
type Revision struct {
	ID               string
	LandID           string
	DocumentType     string
	VersionNumber    int
	IsLatest         bool
	State            RevisionState
	ContentRef       string
	UploadedBy       string
	ChangeReason     string
	ParentRevisionID *string
	UploadedAt       time.Time
}

// Assignment links one reviewer to one concrete revision. At most one
// assignment per revision may be in a non-terminal status.
type Assignment struct {
	ID                 string
	RevisionID         string
	AssignedTo         string
	AssignedBy         string
	ReviewerRole       string
	Priority           string
	DueDate            *time.Time
	Notes              string
	Status             AssignmentStatus
	CompletionResult   *ReviewResult
	CompletionComments string
	CancelReason       string
	CreatedAt          time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
}

// AuditEntry is an append-only history record. Entries are never updated or
// deleted.
type AuditEntry struct {
	ID          string
	SubjectType SubjectType
	SubjectID   string
	Action      AuditAction
	ActorID     string
	Reason      string
	RequestID   string
	CreatedAt   time.Time
}

// DocumentSummary is the projector's per document-type aggregate for one land.
type DocumentSummary struct {
	DocumentType  string
	LatestVersion int
	LatestState   RevisionState
	RevisionCount int
	Locked        bool
	LockedBy      string
	LastResult    *ReviewResult
}

type Principal struct {
	Subject string
	Scopes  []string
	Roles   []string
}

type Authorizer interface {
	Require(principal Principal, permission string) error
}

// ReviewerDirectory answers whether a reviewer holds a capability role. The
// backing data is external configuration, not part of this core.
type ReviewerDirectory interface {
	HasRole(ctx context.Context, reviewerID, role string) (bool, error)
}

// LandRegistry validates that a (land, document type) pairing is acceptable.
// Land existence and the set of allowed document types are owned by external
// collaborators.
type LandRegistry interface {
	ValidateDocument(ctx context.Context, landID, documentType string) error
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAlreadyLocked   = errors.New("revision already locked")
	ErrAlreadyArchived = errors.New("revision archived")
	ErrRoleMismatch    = errors.New("reviewer lacks required role")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternal        = errors.New("internal error")
)

// CanTransition reports whether a revision may move from s to next.
// Archived is terminal.
func (s RevisionState) CanTransition(next RevisionState) bool {
	switch s {
	case StateActive:
		return next == StateLocked || next == StateArchived
	case StateLocked:
		return next == StateActive || next == StateArchived
	default:
		return false
	}
}

// Terminal reports whether the assignment status accepts no further
// transitions.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentCancelled
}

func ParseReviewResult(value string) (ReviewResult, error) {
	switch ReviewResult(value) {
	case ResultApproved, ResultRejected, ResultChangesRequested:
		return ReviewResult(value), nil
	default:
		return "", ErrInvalidArgument
	}
}

// ResultAction maps a completion result to its audit action.
func ResultAction(result ReviewResult) AuditAction {
	switch result {
	case ResultApproved:
		return ActionApproved
	case ResultRejected:
		return ActionRejected
	default:
		return ActionChangesRequested
	}
}

func ParseSubjectType(value string) (SubjectType, error) {
	switch SubjectType(value) {
	case SubjectRevision, SubjectAssignment:
		return SubjectType(value), nil
	default:
		return "", ErrInvalidArgument
	}
}
