package postgres

import (
	"context"
	"fmt"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	Pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{Pool: pool}
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx, so audit entries can
// be written standalone or inside another repository's transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertAudit(ctx context.Context, q execer, entry docs.AuditEntry) error {
	query := `
INSERT INTO audit_entries (subject_type, subject_id, action, actor_id, reason, request_id)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))`
	_, err := q.Exec(ctx, query,
		string(entry.SubjectType),
		entry.SubjectID,
		string(entry.Action),
		entry.ActorID,
		entry.Reason,
		entry.RequestID,
	)
	return err
}

func (r *AuditRepo) Record(ctx context.Context, entry docs.AuditEntry) (docs.AuditEntry, error) {
	if r == nil || r.Pool == nil {
		return docs.AuditEntry{}, fmt.Errorf("db not configured")
	}
	query := `
INSERT INTO audit_entries (subject_type, subject_id, action, actor_id, reason, request_id)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
RETURNING id, created_at`
	row := r.Pool.QueryRow(ctx, query,
		string(entry.SubjectType),
		entry.SubjectID,
		string(entry.Action),
		entry.ActorID,
		entry.Reason,
		entry.RequestID,
	)
	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return docs.AuditEntry{}, mapConstraintErr(err)
	}
	return entry, nil
}

func (r *AuditRepo) History(ctx context.Context, subjectType docs.SubjectType, subjectID string) ([]docs.AuditEntry, error) {
	if r == nil || r.Pool == nil {
		return nil, fmt.Errorf("db not configured")
	}
	query := `
SELECT id, subject_type, subject_id, action, actor_id, COALESCE(reason, ''), COALESCE(request_id, ''), created_at
FROM audit_entries
WHERE subject_type = $1 AND subject_id = $2
ORDER BY entry_index ASC`
	rows, err := r.Pool.Query(ctx, query, string(subjectType), subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []docs.AuditEntry
	for rows.Next() {
		var entry docs.AuditEntry
		var subjType, action string
		if err := rows.Scan(
			&entry.ID,
			&subjType,
			&entry.SubjectID,
			&action,
			&entry.ActorID,
			&entry.Reason,
			&entry.RequestID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.SubjectType = docs.SubjectType(subjType)
		entry.Action = docs.AuditAction(action)
		out = append(out, entry)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
