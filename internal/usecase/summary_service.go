package usecase

import (
	"context"
	"strings"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"
)

// SummaryService is the read-only projector queried by dashboards. It holds
// no state of its own.
type SummaryService struct {
	Summaries SummaryRepository
}

func NewSummaryService(summaries SummaryRepository) *SummaryService {
	return &SummaryService{Summaries: summaries}
}

func (s *SummaryService) Summarize(ctx context.Context, landID string) ([]docs.DocumentSummary, error) {
	if strings.TrimSpace(landID) == "" {
		return nil, docs.ErrInvalidArgument
	}
	return s.Summaries.Summarize(ctx, landID)
}
