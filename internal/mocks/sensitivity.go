package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSensitivityService is a mock implementation of the sensitivity store
type MockSensitivityService struct {
	mock.Mock
}

func (m *MockSensitivityService) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSensitivityService) Replace(ctx context.Context, userID uuid.UUID, keywords []string) ([]string, error) {
	args := m.Called(ctx, userID, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
