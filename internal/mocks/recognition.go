package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/service"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/types"
)

// MockRecognitionClient is a mock implementation of the recognition endpoint client
type MockRecognitionClient struct {
	mock.Mock
}

func (m *MockRecognitionClient) Recognize(ctx context.Context, imageBase64 string) ([]types.RecognizedFood, error) {
	args := m.Called(ctx, imageBase64)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecognizedFood), args.Error(1)
}

// MockImageLoader is a mock implementation of the batch image loader
type MockImageLoader struct {
	mock.Mock
}

func (m *MockImageLoader) LoadAll(ctx context.Context, urls []string) []service.LoadedImage {
	args := m.Called(ctx, urls)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]service.LoadedImage)
}
