package usecase

import (
	"context"
	"strings"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
)

// AuditTrail exposes the append-only history. Mutating repositories write
// their own entries inside their transactions; this surface only reads, plus
// a pass-through Record for collaborators outside those transactions.
type AuditTrail struct {
	Entries AuditRepository
}

func NewAuditTrail(entries AuditRepository) *AuditTrail {
	return &AuditTrail{Entries: entries}
}

func (t *AuditTrail) Record(ctx context.Context, entry docs.AuditEntry) (docs.AuditEntry, error) {
	if strings.TrimSpace(entry.SubjectID) == "" || strings.TrimSpace(entry.ActorID) == "" {
		return docs.AuditEntry{}, docs.ErrInvalidArgument
	}
	if _, err := docs.ParseSubjectType(string(entry.SubjectType)); err != nil {
		return docs.AuditEntry{}, err
	}
	return t.Entries.Record(ctx, entry)
}

// History returns the subject's entries oldest first.
func (t *AuditTrail) History(ctx context.Context, subjectType, subjectID string) ([]docs.AuditEntry, error) {
	parsed, err := docs.ParseSubjectType(subjectType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(subjectID) == "" {
		return nil, docs.ErrInvalidArgument
	}
	return t.Entries.History(ctx, parsed, subjectID)
}
