package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mock SummaryRenderer
type SummaryRenderer struct {
	mock.Mock
}

func (m *SummaryRenderer) Render(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock SummaryStore
type SummaryStore struct {
	mock.Mock
}

func (m *SummaryStore) Save(ctx context.Context, image []byte) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *SummaryStore) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
