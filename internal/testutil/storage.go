package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockObjectStorage is a mock implementation of media.ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	return m.Called(ctx, storageKey, data, contentType).Error(0)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	return m.Called(ctx, storageKey).Error(0)
}

// PNGBytes is the smallest byte sequence sniffed as image/png
var PNGBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
