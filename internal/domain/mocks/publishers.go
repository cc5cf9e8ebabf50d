package mocks

import (
	"context"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock RefreshEventPublisher
type RefreshEventPublisher struct {
	mock.Mock
}

func (m *RefreshEventPublisher) PublishRefresh(ctx context.Context, event domain.RefreshEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// Mock RefreshRunRepository
type RefreshRunRepository struct {
	mock.Mock
}

func (m *RefreshRunRepository) SaveRun(ctx context.Context, run *domain.RefreshRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *RefreshRunRepository) ListRuns(ctx context.Context, limit int) ([]*domain.RefreshRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RefreshRun), args.Error(1)
}
