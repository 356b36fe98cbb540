package usecase

import (
	"context"
	"strings"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
)

const defaultPriority = "normal"

// ReviewService is the lock/assignment manager. Assigning a revision locks
// it for exclusive evaluation; cancelling or unlocking returns it to active.
type ReviewService struct {
	Assignments AssignmentRepository
	Directory   docs.ReviewerDirectory
}

func NewReviewService(assignments AssignmentRepository, directory docs.ReviewerDirectory) *ReviewService {
	return &ReviewService{
		Assignments: assignments,
		Directory:   directory,
	}
}

// Assign creates an assignment against a concrete revision and locks it.
// The role check runs before any row is written, so a role mismatch leaves
// the revision untouched.
func (s *ReviewService) Assign(ctx context.Context, input AssignInput) (docs.Assignment, error) {
	if err := requireRequestID(input.RequestID); err != nil {
		return docs.Assignment{}, err
	}
	if strings.TrimSpace(input.RevisionID) == "" ||
		strings.TrimSpace(input.AssignedTo) == "" ||
		strings.TrimSpace(input.AssignedBy) == "" ||
		strings.TrimSpace(input.ReviewerRole) == "" {
		return docs.Assignment{}, docs.ErrInvalidArgument
	}
	if s.Directory == nil {
		return docs.Assignment{}, docs.ErrInternal
	}
	ok, err := s.Directory.HasRole(ctx, input.AssignedTo, input.ReviewerRole)
	if err != nil {
		return docs.Assignment{}, err
	}
	if !ok {
		return docs.Assignment{}, docs.ErrRoleMismatch
	}
	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = defaultPriority
	}
	asg := docs.Assignment{
		RevisionID:   input.RevisionID,
		AssignedTo:   input.AssignedTo,
		AssignedBy:   input.AssignedBy,
		ReviewerRole: input.ReviewerRole,
		Priority:     priority,
		DueDate:      input.DueDate,
		Notes:        input.Notes,
		Status:       docs.AssignmentAssigned,
	}
	return s.Assignments.CreateLocking(ctx, asg, input.RequestID)
}

func (s *ReviewService) GetAssignment(ctx context.Context, assignmentID string) (docs.Assignment, error) {
	return s.Assignments.Get(ctx, assignmentID)
}

func (s *ReviewService) Start(ctx context.Context, input StartInput) (docs.Assignment, error) {
	if err := requireRequestID(input.RequestID); err != nil {
		return docs.Assignment{}, err
	}
	return s.Assignments.Start(ctx, input.AssignmentID, input.Actor.ID)
}

// Complete finishes a review. A reviewer may complete straight from assigned
// without an explicit start. The revision stays locked; archiving or
// unlocking is a separate administrative action.
func (s *ReviewService) Complete(ctx context.Context, input CompleteInput) (docs.Assignment, error) {
	if err := requireRequestID(input.RequestID); err != nil {
		return docs.Assignment{}, err
	}
	result, err := docs.ParseReviewResult(input.Result)
	if err != nil {
		return docs.Assignment{}, err
	}
	return s.Assignments.Complete(ctx, input.AssignmentID, input.Actor.ID, result, input.Comments, input.RequestID)
}

// Cancel ends an active assignment and returns its revision to active.
func (s *ReviewService) Cancel(ctx context.Context, input CancelInput) (docs.Assignment, error) {
	if err := requireRequestID(input.RequestID); err != nil {
		return docs.Assignment{}, err
	}
	return s.Assignments.Cancel(ctx, input.AssignmentID, input.Actor.ID, input.Reason, input.RequestID)
}

// Unlock is the administrative override: it returns a locked revision to
// active, cancelling its active assignment when one still exists. A revision
// left locked by a completed review has no active assignment and unlocks
// directly.
func (s *ReviewService) Unlock(ctx context.Context, input UnlockInput) (docs.Revision, error) {
	if err := requireRequestID(input.RequestID); err != nil {
		return docs.Revision{}, err
	}
	if strings.TrimSpace(input.RevisionID) == "" || strings.TrimSpace(input.Actor.ID) == "" {
		return docs.Revision{}, docs.ErrInvalidArgument
	}
	return s.Assignments.UnlockRevision(ctx, input.RevisionID, input.Actor.ID, input.Reason, input.RequestID)
}
