// Package repository contains the data access abstractions for analyses.
// Implementations live in subpackages (postgres).
package repository

import (
	"context"

	"ytemotion/internal/model"
)

// AnalysisRepository defines data access for analyses using SQL queries only.
// No business logic here, strictly persistence operations.
type AnalysisRepository interface {
	// Create inserts the analysis and all of its comments atomically.
	Create(ctx context.Context, a *model.Analysis) error

	// FindByID returns an analysis with its comments in their original order.
	FindByID(ctx context.Context, id string) (*model.Analysis, error)

	// List returns a page of analyses without comments, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Analysis], error)

	// Delete removes an analysis and its comments. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
