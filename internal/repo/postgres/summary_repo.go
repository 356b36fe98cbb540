package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SummaryRepo struct {
	Pool *pgxpool.Pool
}

func NewSummaryRepo(pool *pgxpool.Pool) *SummaryRepo {
	return &SummaryRepo{Pool: pool}
}

// Summarize derives the per document-type dashboard view for one land. All
// reads run in a single read-only transaction so the view is one consistent
// snapshot.
func (r *SummaryRepo) Summarize(ctx context.Context, landID string) ([]docs.DocumentSummary, error) {
	if r == nil || r.Pool == nil {
		return nil, fmt.Errorf("db not configured")
	}
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM lands WHERE id = $1)`, landID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, docs.ErrNotFound
	}

	byType := map[string]*docs.DocumentSummary{}

	rows, err := tx.Query(ctx, `
SELECT document_type, count(*), max(version_number)
FROM document_revisions
WHERE land_id = $1
GROUP BY document_type`, landID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var summary docs.DocumentSummary
		if err := rows.Scan(&summary.DocumentType, &summary.RevisionCount, &summary.LatestVersion); err != nil {
			rows.Close()
			return nil, err
		}
		byType[summary.DocumentType] = &summary
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = tx.Query(ctx, `
SELECT document_type, state
FROM document_revisions
WHERE land_id = $1 AND is_latest`, landID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var docType, state string
		if err := rows.Scan(&docType, &state); err != nil {
			rows.Close()
			return nil, err
		}
		if summary, ok := byType[docType]; ok {
			summary.LatestState = docs.RevisionState(state)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = tx.Query(ctx, `
SELECT DISTINCT ON (r.document_type) r.document_type, a.assigned_to
FROM document_revisions r
JOIN review_assignments a ON a.revision_id = r.id
WHERE r.land_id = $1 AND r.state = $2 AND a.status IN ($3, $4)
ORDER BY r.document_type, a.created_at DESC`,
		landID, string(docs.StateLocked),
		string(docs.AssignmentAssigned), string(docs.AssignmentInProgress))
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var docType, assignedTo string
		if err := rows.Scan(&docType, &assignedTo); err != nil {
			rows.Close()
			return nil, err
		}
		if summary, ok := byType[docType]; ok {
			summary.Locked = true
			summary.LockedBy = assignedTo
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	// "Locked" covers any locked revision, assignment or not: a completed
	// review leaves its revision locked with no active assignment.
	rows, err = tx.Query(ctx, `
SELECT DISTINCT document_type
FROM document_revisions
WHERE land_id = $1 AND state = $2`, landID, string(docs.StateLocked))
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var docType string
		if err := rows.Scan(&docType); err != nil {
			rows.Close()
			return nil, err
		}
		if summary, ok := byType[docType]; ok {
			summary.Locked = true
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	rows, err = tx.Query(ctx, `
SELECT DISTINCT ON (r.document_type) r.document_type, a.completion_result
FROM review_assignments a
JOIN document_revisions r ON r.id = a.revision_id
WHERE r.land_id = $1 AND a.status = $2
ORDER BY r.document_type, a.completed_at DESC`,
		landID, string(docs.AssignmentCompleted))
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var docType, result string
		if err := rows.Scan(&docType, &result); err != nil {
			rows.Close()
			return nil, err
		}
		if summary, ok := byType[docType]; ok {
			parsed := docs.ReviewResult(result)
			summary.LastResult = &parsed
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	out := make([]docs.DocumentSummary, 0, len(byType))
	for _, summary := range byType {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentType < out[j].DocumentType })
	return out, nil
}
