package usecase

import (
	"context"
	"time"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
)

// RevisionRepository owns document_revisions rows. Create and Archive are
// single transactions: the latest-flag flip, the state change, and the audit
// entry commit or roll back together.
type RevisionRepository interface {
	Create(ctx context.Context, rev docs.Revision, requestID string) (docs.Revision, error)
	Get(ctx context.Context, revisionID string) (docs.Revision, error)
	GetLatest(ctx context.Context, landID, documentType string) (docs.Revision, error)
	ListByDocument(ctx context.Context, landID, documentType string) ([]docs.Revision, error)
	Archive(ctx context.Context, revisionID, actorID, reason, requestID string) (docs.Revision, error)
}

// AssignmentRepository owns review_assignments rows and performs the
// revision lock transitions under row locks, in the same transaction as the
// assignment mutation and its audit entries.
type AssignmentRepository interface {
	CreateLocking(ctx context.Context, asg docs.Assignment, requestID string) (docs.Assignment, error)
	Get(ctx context.Context, assignmentID string) (docs.Assignment, error)
	Start(ctx context.Context, assignmentID, actorID string) (docs.Assignment, error)
	Complete(ctx context.Context, assignmentID, actorID string, result docs.ReviewResult, comments, requestID string) (docs.Assignment, error)
	Cancel(ctx context.Context, assignmentID, actorID, reason, requestID string) (docs.Assignment, error)
	UnlockRevision(ctx context.Context, revisionID, actorID, reason, requestID string) (docs.Revision, error)
}

// AuditRepository is append-only. Record is exposed for collaborators that
// act outside the transactional repositories; History never mutates.
type AuditRepository interface {
	Record(ctx context.Context, entry docs.AuditEntry) (docs.AuditEntry, error)
	History(ctx context.Context, subjectType docs.SubjectType, subjectID string) ([]docs.AuditEntry, error)
}

// SummaryRepository derives dashboard aggregates from stored rows inside a
// single read transaction.
type SummaryRepository interface {
	Summarize(ctx context.Context, landID string) ([]docs.DocumentSummary, error)
}

type Actor struct {
	ID string
}

type CreateRevisionInput struct {
	LandID       string
	DocumentType string
	ContentRef   string
	UploadedBy   string
	ChangeReason string
	RequestID    string
}

type ArchiveInput struct {
	RevisionID string
	Reason     string
	RequestID  string
	Actor      Actor
}

type AssignInput struct {
	RevisionID   string
	AssignedTo   string
	AssignedBy   string
	ReviewerRole string
	Priority     string
	DueDate      *time.Time
	Notes        string
	RequestID    string
}

type StartInput struct {
	AssignmentID string
	RequestID    string
	Actor        Actor
}

type CompleteInput struct {
	AssignmentID string
	Result       string
	Comments     string
	RequestID    string
	Actor        Actor
}

type CancelInput struct {
	AssignmentID string
	Reason       string
	RequestID    string
	Actor        Actor
}

type UnlockInput struct {
	RevisionID string
	Reason     string
	RequestID  string
	Actor      Actor
}
