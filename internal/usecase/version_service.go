package usecase

import (
	"context"
	"strings"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
)

// VersionService is the version store: it owns the immutable revision
// sequence per (land, document type) pair and the latest pointer.
type VersionService struct {
	Revisions RevisionRepository
	Registry  docs.LandRegistry
}

func NewVersionService(revisions RevisionRepository, registry docs.LandRegistry) *VersionService {
	return &VersionService{
		Revisions: revisions,
		Registry:  registry,
	}
}

func requireRequestID(requestID string) error {
	if strings.TrimSpace(requestID) == "" {
		return docs.ErrInvalidArgument
	}
	return nil
}

func (s *VersionService) CreateRevision(ctx context.Context, input CreateRevisionInput) (docs.Revision, error) {
	if err := requireRequestID(input.RequestID); err != nil {
		return docs.Revision{}, err
	}
	if strings.TrimSpace(input.LandID) == "" ||
		strings.TrimSpace(input.DocumentType) == "" ||
		strings.TrimSpace(input.ContentRef) == "" ||
		strings.TrimSpace(input.UploadedBy) == "" {
		return docs.Revision{}, docs.ErrInvalidArgument
	}
	if s.Registry != nil {
		if err := s.Registry.ValidateDocument(ctx, input.LandID, input.DocumentType); err != nil {
			return docs.Revision{}, err
		}
	}
	rev := docs.Revision{
		LandID:       input.LandID,
		DocumentType: input.DocumentType,
		State:        docs.StateActive,
		IsLatest:     true,
		ContentRef:   input.ContentRef,
		UploadedBy:   input.UploadedBy,
		ChangeReason: input.ChangeReason,
	}
	return s.Revisions.Create(ctx, rev, input.RequestID)
}

func (s *VersionService) GetRevision(ctx context.Context, revisionID string) (docs.Revision, error) {
	return s.Revisions.Get(ctx, revisionID)
}

func (s *VersionService) GetLatest(ctx context.Context, landID, documentType string) (docs.Revision, error) {
	if strings.TrimSpace(landID) == "" || strings.TrimSpace(documentType) == "" {
		return docs.Revision{}, docs.ErrInvalidArgument
	}
	return s.Revisions.GetLatest(ctx, landID, documentType)
}

// ListVersions returns every revision for the pair, newest first.
func (s *VersionService) ListVersions(ctx context.Context, landID, documentType string) ([]docs.Revision, error) {
	if strings.TrimSpace(landID) == "" || strings.TrimSpace(documentType) == "" {
		return nil, docs.ErrInvalidArgument
	}
	return s.Revisions.ListByDocument(ctx, landID, documentType)
}

// Archive retires a revision. Locked revisions may be archived only once
// their assignment is terminal; active revisions only when a newer upload
// has superseded them. Archived is terminal.
func (s *VersionService) Archive(ctx context.Context, input ArchiveInput) (docs.Revision, error) {
	if err := requireRequestID(input.RequestID); err != nil {
		return docs.Revision{}, err
	}
	if strings.TrimSpace(input.Actor.ID) == "" {
		return docs.Revision{}, docs.ErrInvalidArgument
	}
	return s.Revisions.Archive(ctx, input.RevisionID, input.Actor.ID, input.Reason, input.RequestID)
}
