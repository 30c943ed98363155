package repository

import (
	"context"

	"testcase-generator/internal/domain"
)

// TestCaseRepository persists test cases. Every read and write after Create is
// filtered by owner; a record owned by someone else behaves as missing.
type TestCaseRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, tc *domain.TestCase) error
	GetByOwner(ctx context.Context, ownerID, id string) (*domain.TestCase, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.TestCase, error)
	UpdateByOwner(ctx context.Context, ownerID, id string, fields domain.TestCaseFields) (*domain.TestCase, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) error
}
