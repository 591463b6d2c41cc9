package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/notify"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipientID string, kind notify.Kind, payload map[string]any) error {
	args := m.Called(ctx, recipientID, kind, payload)
	return args.Error(0)
}
