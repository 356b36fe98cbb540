package postgres

import (
	"context"
	"fmt"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RevisionRepo struct {
	Pool *pgxpool.Pool
}

func NewRevisionRepo(pool *pgxpool.Pool) *RevisionRepo {
	return &RevisionRepo{Pool: pool}
}

const revisionColumns = `id, land_id, document_type, version_number, is_latest, state, content_ref, uploaded_by, COALESCE(change_reason, ''), parent_revision_id, uploaded_at`

func scanRevision(row pgx.Row) (docs.Revision, error) {
	var rev docs.Revision
	var state string
	if err := row.Scan(
		&rev.ID,
		&rev.LandID,
		&rev.DocumentType,
		&rev.VersionNumber,
		&rev.IsLatest,
		&state,
		&rev.ContentRef,
		&rev.UploadedBy,
		&rev.ChangeReason,
		&rev.ParentRevisionID,
		&rev.UploadedAt,
	); err != nil {
		return docs.Revision{}, err
	}
	rev.State = docs.RevisionState(state)
	return rev, nil
}

// Create inserts the next revision for the pair and flips the previous
// latest flag, all in one transaction. The prior latest row is locked first
// so concurrent uploads on the same pair serialize; the first upload of a
// pair has no row to lock and relies on the unique version index instead.
func (r *RevisionRepo) Create(ctx context.Context, rev docs.Revision, requestID string) (docs.Revision, error) {
	if r == nil || r.Pool == nil {
		return docs.Revision{}, fmt.Errorf("db not configured")
	}
	created := rev
	err := withTx(ctx, r.Pool, func(tx pgx.Tx) error {
		var parentID *string
		version := 1
		row := tx.QueryRow(ctx, `
SELECT id, version_number
FROM document_revisions
WHERE land_id = $1 AND document_type = $2 AND is_latest
FOR UPDATE`, rev.LandID, rev.DocumentType)
		var prevID string
		var prevVersion int
		switch err := row.Scan(&prevID, &prevVersion); err {
		case nil:
			parentID = &prevID
			version = prevVersion + 1
			if _, err := tx.Exec(ctx, `
UPDATE document_revisions SET is_latest = false WHERE id = $1`, prevID); err != nil {
				return err
			}
		case pgx.ErrNoRows:
			// first revision for this pair
		default:
			return err
		}

		insert := tx.QueryRow(ctx, `
INSERT INTO document_revisions (land_id, document_type, version_number, is_latest, state, content_ref, uploaded_by, change_reason, parent_revision_id)
VALUES ($1, $2, $3, true, $4, $5, $6, NULLIF($7, ''), $8)
RETURNING id, uploaded_at`,
			rev.LandID,
			rev.DocumentType,
			version,
			string(docs.StateActive),
			rev.ContentRef,
			rev.UploadedBy,
			rev.ChangeReason,
			parentID,
		)
		if err := insert.Scan(&created.ID, &created.UploadedAt); err != nil {
			return mapConstraintErr(err)
		}
		created.VersionNumber = version
		created.IsLatest = true
		created.State = docs.StateActive
		created.ParentRevisionID = parentID

		return insertAudit(ctx, tx, docs.AuditEntry{
			SubjectType: docs.SubjectRevision,
			SubjectID:   created.ID,
			Action:      docs.ActionUploaded,
			ActorID:     rev.UploadedBy,
			Reason:      rev.ChangeReason,
			RequestID:   requestID,
		})
	})
	if err != nil {
		return docs.Revision{}, err
	}
	return created, nil
}

func (r *RevisionRepo) Get(ctx context.Context, revisionID string) (docs.Revision, error) {
	if r == nil || r.Pool == nil {
		return docs.Revision{}, fmt.Errorf("db not configured")
	}
	row := r.Pool.QueryRow(ctx, `
SELECT `+revisionColumns+`
FROM document_revisions
WHERE id = $1`, revisionID)
	rev, err := scanRevision(row)
	if err == pgx.ErrNoRows {
		return docs.Revision{}, docs.ErrNotFound
	}
	return rev, err
}

func (r *RevisionRepo) GetLatest(ctx context.Context, landID, documentType string) (docs.Revision, error) {
	if r == nil || r.Pool == nil {
		return docs.Revision{}, fmt.Errorf("db not configured")
	}
	row := r.Pool.QueryRow(ctx, `
SELECT `+revisionColumns+`
FROM document_revisions
WHERE land_id = $1 AND document_type = $2 AND is_latest`, landID, documentType)
	rev, err := scanRevision(row)
	if err == pgx.ErrNoRows {
		return docs.Revision{}, docs.ErrNotFound
	}
	return rev, err
}

func (r *RevisionRepo) ListByDocument(ctx context.Context, landID, documentType string) ([]docs.Revision, error) {
	if r == nil || r.Pool == nil {
		return nil, fmt.Errorf("db not configured")
	}
	rows, err := r.Pool.Query(ctx, `
SELECT `+revisionColumns+`
FROM document_revisions
WHERE land_id = $1 AND document_type = $2
ORDER BY version_number DESC`, landID, documentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []docs.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// Archive transitions a revision to its terminal state. A locked revision
// must have no active assignment left; an active revision must already be
// superseded, since archiving the latest would leave the pair without an
// actionable head.
func (r *RevisionRepo) Archive(ctx context.Context, revisionID, actorID, reason, requestID string) (docs.Revision, error) {
	if r == nil || r.Pool == nil {
		return docs.Revision{}, fmt.Errorf("db not configured")
	}
	var archived docs.Revision
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
		switch rev.State {
		case docs.StateArchived:
			return docs.ErrInvalidState
		case docs.StateLocked:
			var active int
			if err := tx.QueryRow(ctx, `
SELECT count(*) FROM review_assignments
WHERE revision_id = $1 AND status IN ($2, $3)`,
				revisionID, string(docs.AssignmentAssigned), string(docs.AssignmentInProgress),
			).Scan(&active); err != nil {
				return err
			}
			if active > 0 {
				return docs.ErrInvalidState
			}
		case docs.StateActive:
			if rev.IsLatest {
				return docs.ErrInvalidState
			}
		}
		if _, err := tx.Exec(ctx, `
UPDATE document_revisions SET state = $1 WHERE id = $2`,
			string(docs.StateArchived), revisionID); err != nil {
			return err
		}
		rev.State = docs.StateArchived
		archived = rev
		return insertAudit(ctx, tx, docs.AuditEntry{
			SubjectType: docs.SubjectRevision,
			SubjectID:   revisionID,
			Action:      docs.ActionArchived,
			ActorID:     actorID,
			Reason:      reason,
			RequestID:   requestID,
		})
	})
	if err != nil {
		return docs.Revision{}, err
	}
	return archived, nil
}
