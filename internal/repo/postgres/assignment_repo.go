package postgres

import (
	"context"
	"fmt"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AssignmentRepo struct {
	Pool *pgxpool.Pool
}

func NewAssignmentRepo(pool *pgxpool.Pool) *AssignmentRepo {
	return &AssignmentRepo{Pool: pool}
}

const assignmentColumns = `id, revision_id, assigned_to, assigned_by, reviewer_role, priority, due_date, COALESCE(notes, ''), status, completion_result, COALESCE(completion_comments, ''), COALESCE(cancel_reason, ''), created_at, started_at, completed_at`

func scanAssignment(row pgx.Row) (docs.Assignment, error) {
	var asg docs.Assignment
	var status string
	var result *string
	if err := row.Scan(
		&asg.ID,
		&asg.RevisionID,
		&asg.AssignedTo,
		&asg.AssignedBy,
		&asg.ReviewerRole,
		&asg.Priority,
		&asg.DueDate,
		&asg.Notes,
		&status,
		&result,
		&asg.CompletionComments,
		&asg.CancelReason,
		&asg.CreatedAt,
		&asg.StartedAt,
		&asg.CompletedAt,
	); err != nil {
		return docs.Assignment{}, err
	}
	asg.Status = docs.AssignmentStatus(status)
	if result != nil {
		parsed := docs.ReviewResult(*result)
		asg.CompletionResult = &parsed
	}
	return asg, nil
}

// lockRevisionState locks the revision row and returns its current state.
func lockRevisionState(ctx context.Context, tx pgx.Tx, revisionID string) (docs.RevisionState, error) {
	var state string
	err := tx.QueryRow(ctx, `
SELECT state FROM document_revisions WHERE id = $1 FOR UPDATE`, revisionID).Scan(&state)
	if err == pgx.ErrNoRows {
		return "", docs.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return docs.RevisionState(state), nil
}

// CreateLocking inserts the assignment and locks its revision in one
// transaction. The revision row lock serializes concurrent assigns: the
// loser re-reads a locked state and fails.
func (r *AssignmentRepo) CreateLocking(ctx context.Context, asg docs.Assignment, requestID string) (docs.Assignment, error) {
	if r == nil || r.Pool == nil {
		return docs.Assignment{}, fmt.Errorf("db not configured")
	}
	created := asg
	err := withTx(ctx, r.Pool, func(tx pgx.Tx) error {
		state, err := lockRevisionState(ctx, tx, asg.RevisionID)
		if err != nil {
			return err
		}
		switch state {
		case docs.StateLocked:
			return docs.ErrAlreadyLocked
		case docs.StateArchived:
			return docs.ErrAlreadyArchived
		}

		row := tx.QueryRow(ctx, `
INSERT INTO review_assignments (revision_id, assigned_to, assigned_by, reviewer_role, priority, due_date, notes, status)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
RETURNING id, created_at`,
			asg.RevisionID,
			asg.AssignedTo,
			asg.AssignedBy,
			asg.ReviewerRole,
			asg.Priority,
			asg.DueDate,
			asg.Notes,
			string(docs.AssignmentAssigned),
		)
		if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
			return mapConstraintErr(err)
		}
		created.Status = docs.AssignmentAssigned

		if _, err := tx.Exec(ctx, `
UPDATE document_revisions SET state = $1 WHERE id = $2`,
			string(docs.StateLocked), asg.RevisionID); err != nil {
			return err
		}
		if err := insertAudit(ctx, tx, docs.AuditEntry{
			SubjectType: docs.SubjectRevision,
			SubjectID:   asg.RevisionID,
			Action:      docs.ActionLocked,
			ActorID:     asg.AssignedBy,
			RequestID:   requestID,
		}); err != nil {
			return err
		}
		return insertAudit(ctx, tx, docs.AuditEntry{
			SubjectType: docs.SubjectAssignment,
			SubjectID:   created.ID,
			Action:      docs.ActionLocked,
			ActorID:     asg.AssignedBy,
			Reason:      asg.Notes,
			RequestID:   requestID,
		})
	})
	if err != nil {
		return docs.Assignment{}, err
	}
	return created, nil
}

func (r *AssignmentRepo) Get(ctx context.Context, assignmentID string) (docs.Assignment, error) {
	if r == nil || r.Pool == nil {
		return docs.Assignment{}, fmt.Errorf("db not configured")
	}
	row := r.Pool.QueryRow(ctx, `
SELECT `+assignmentColumns+`
FROM review_assignments
WHERE id = $1`, assignmentID)
	asg, err := scanAssignment(row)
	if err == pgx.ErrNoRows {
		return docs.Assignment{}, docs.ErrNotFound
	}
	return asg, err
}

func lockAssignment(ctx context.Context, tx pgx.Tx, assignmentID string) (docs.Assignment, error) {
	row := tx.QueryRow(ctx, `
SELECT `+assignmentColumns+`
FROM review_assignments
WHERE id = $1
FOR UPDATE`, assignmentID)
	asg, err := scanAssignment(row)
	if err == pgx.ErrNoRows {
		return docs.Assignment{}, docs.ErrNotFound
	}
	return asg, err
}

func (r *AssignmentRepo) Start(ctx context.Context, assignmentID, actorID string) (docs.Assignment, error) {
	if r == nil || r.Pool == nil {
		return docs.Assignment{}, fmt.Errorf("db not configured")
	}
	var updated docs.Assignment
	err := withTx(ctx, r.Pool, func(tx pgx.Tx) error {
		asg, err := lockAssignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if asg.Status != docs.AssignmentAssigned {
			return docs.ErrInvalidState
		}
		row := tx.QueryRow(ctx, `
UPDATE review_assignments
SET status = $1, started_at = now()
WHERE id = $2
RETURNING `+assignmentColumns, string(docs.AssignmentInProgress), assignmentID)
		updated, err = scanAssignment(row)
		return err
	})
	if err != nil {
		return docs.Assignment{}, err
	}
	return updated, nil
}

// Complete finishes the review. The revision stays locked; per audit policy
// the completion result is the entry's action.
func (r *AssignmentRepo) Complete(ctx context.Context, assignmentID, actorID string, result docs.ReviewResult, comments, requestID string) (docs.Assignment, error) {
	if r == nil || r.Pool == nil {
		return docs.Assignment{}, fmt.Errorf("db not configured")
	}
	var updated docs.Assignment
	err := withTx(ctx, r.Pool, func(tx pgx.Tx) error {
		asg, err := lockAssignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if asg.Status != docs.AssignmentAssigned && asg.Status != docs.AssignmentInProgress {
			return docs.ErrInvalidState
		}
		row := tx.QueryRow(ctx, `
UPDATE review_assignments
SET status = $1, completion_result = $2, completion_comments = NULLIF($3, ''), completed_at = now()
WHERE id = $4
RETURNING `+assignmentColumns,
			string(docs.AssignmentCompleted), string(result), comments, assignmentID)
		updated, err = scanAssignment(row)
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, docs.AuditEntry{
			SubjectType: docs.SubjectAssignment,
			SubjectID:   assignmentID,
			Action:      docs.ResultAction(result),
			ActorID:     actorID,
			Reason:      comments,
			RequestID:   requestID,
		})
	})
	if err != nil {
		return docs.Assignment{}, err
	}
	return updated, nil
}

// Cancel terminates an active assignment and returns its revision to
// active. Revision and assignment rows are locked in a fixed order
// (revision first) to match CreateLocking and avoid deadlock.
func (r *AssignmentRepo) Cancel(ctx context.Context, assignmentID, actorID, reason, requestID string) (docs.Assignment, error) {
	if r == nil || r.Pool == nil {
		return docs.Assignment{}, fmt.Errorf("db not configured")
	}
	var updated docs.Assignment
	err := withTx(ctx, r.Pool, func(tx pgx.Tx) error {
		var revisionID string
		err := tx.QueryRow(ctx, `
SELECT revision_id FROM review_assignments WHERE id = $1`, assignmentID).Scan(&revisionID)
		if err == pgx.ErrNoRows {
			return docs.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := lockRevisionState(ctx, tx, revisionID); err != nil {
			return err
		}
		asg, err := lockAssignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if asg.Status.Terminal() {
			return docs.ErrInvalidState
		}
		row := tx.QueryRow(ctx, `
UPDATE review_assignments
SET status = $1, cancel_reason = NULLIF($2, '')
WHERE id = $3
RETURNING `+assignmentColumns,
			string(docs.AssignmentCancelled), reason, assignmentID)
		updated, err = scanAssignment(row)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
UPDATE document_revisions SET state = $1 WHERE id = $2 AND state = $3`,
			string(docs.StateActive), revisionID, string(docs.StateLocked)); err != nil {
			return err
		}
		if err := insertAudit(ctx, tx, docs.AuditEntry{
			SubjectType: docs.SubjectRevision,
			SubjectID:   revisionID,
			Action:      docs.ActionUnlocked,
			ActorID:     actorID,
			Reason:      reason,
			RequestID:   requestID,
		}); err != nil {
			return err
		}
		return insertAudit(ctx, tx, docs.AuditEntry{
			SubjectType: docs.SubjectAssignment,
			SubjectID:   assignmentID,
			Action:      docs.ActionCancelled,
			ActorID:     actorID,
			Reason:      reason,
			RequestID:   requestID,
		})
	})
	if err != nil {
		return docs.Assignment{}, err
	}
	return updated, nil
}

// UnlockRevision is the administrative unlock. It cancels the active
// assignment when one exists; a revision left locked by a completed review
// unlocks without one.
func (r *AssignmentRepo) UnlockRevision(ctx context.Context, revisionID, actorID, reason, requestID string) (docs.Revision, error) {
	if r == nil || r.Pool == nil {
		return docs.Revision{}, fmt.Errorf("db not configured")
	}
	var unlocked docs.Revision
	err := withTx(ctx, r.Pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
SELECT `+revisionColumns+`
FROM document_revisions
WHERE id = $1
FOR UPDATE`, revisionID)
		rev, err := scanRevision(row)
		if err == pgx.ErrNoRows {
			return docs.ErrNotFound
		}
		if err != nil {
			return err
		}
		if rev.State != docs.StateLocked {
			return docs.ErrInvalidState
		}

		activeRow := tx.QueryRow(ctx, `
SELECT `+assignmentColumns+`
FROM review_assignments
WHERE revision_id = $1 AND status IN ($2, $3)
FOR UPDATE`, revisionID, string(docs.AssignmentAssigned), string(docs.AssignmentInProgress))
		active, err := scanAssignment(activeRow)
		if err != nil && err != pgx.ErrNoRows {
			return err
		}
		if err == nil {
			if _, err := tx.Exec(ctx, `
UPDATE review_assignments
SET status = $1, cancel_reason = NULLIF($2, '')
WHERE id = $3`,
				string(docs.AssignmentCancelled), reason, active.ID); err != nil {
				return err
			}
			if err := insertAudit(ctx, tx, docs.AuditEntry{
				SubjectType: docs.SubjectAssignment,
				SubjectID:   active.ID,
				Action:      docs.ActionCancelled,
				ActorID:     actorID,
				Reason:      reason,
				RequestID:   requestID,
			}); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `
UPDATE document_revisions SET state = $1 WHERE id = $2`,
			string(docs.StateActive), revisionID); err != nil {
			return err
		}
		rev.State = docs.StateActive
		unlocked = rev
		return insertAudit(ctx, tx, docs.AuditEntry{
			SubjectType: docs.SubjectRevision,
			SubjectID:   revisionID,
			Action:      docs.ActionUnlocked,
			ActorID:     actorID,
			Reason:      reason,
			RequestID:   requestID,
		})
	})
	if err != nil {
		return docs.Revision{}, err
	}
	return unlocked, nil
}
