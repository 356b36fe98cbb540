package postgres

import (
	"context"
	"fmt"

	"github.com/JaligamRishitha/renewmart-sub000/internal/domain/docs"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LandRegistry validates upload targets. Land rows are owned by the wider
// marketplace; document types are an opaque configured list. An empty list
// accepts any non-empty type.
type LandRegistry struct {
	Pool         *pgxpool.Pool
	allowedTypes map[string]struct{}
}

func NewLandRegistry(pool *pgxpool.Pool, allowedTypes []string) *LandRegistry {
	registry := &LandRegistry{Pool: pool}
	if len(allowedTypes) > 0 {
		registry.allowedTypes = make(map[string]struct{}, len(allowedTypes))
		for _, docType := range allowedTypes {
			registry.allowedTypes[docType] = struct{}{}
		}
	}
	return registry
}

func (r *LandRegistry) ValidateDocument(ctx context.Context, landID, documentType string) error {
	if r == nil || r.Pool == nil {
		return fmt.Errorf("db not configured")
	}
	if r.allowedTypes != nil {
		if _, ok := r.allowedTypes[documentType]; !ok {
			return docs.ErrNotFound
		}
	}
	var exists bool
	if err := r.Pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM lands WHERE id = $1)`, landID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return docs.ErrNotFound
	}
	return nil
}
