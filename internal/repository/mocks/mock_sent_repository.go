package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/repository"
)

type MockSentRepository struct {
	mock.Mock
}

func (m *MockSentRepository) Create(ctx context.Context, s *model.Sent, documentIDs []string, hist *model.SentStatusHistory) (*model.Sent, error) {
	args := m.Called(ctx, s, documentIDs, hist)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sent), args.Error(1)
}

func (m *MockSentRepository) FindByID(ctx context.Context, id string) (*model.Sent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sent), args.Error(1)
}

func (m *MockSentRepository) FindByParentAndSender(ctx context.Context, parentSentID, senderID string) (*model.Sent, error) {
	args := m.Called(ctx, parentSentID, senderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sent), args.Error(1)
}

func (m *MockSentRepository) ListByThread(ctx context.Context, threadID string) ([]model.Sent, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Sent), args.Error(1)
}

func (m *MockSentRepository) ListByReceiver(ctx context.Context, receiverID string, pq repository.PageQuery) (*repository.PageResult[model.Sent], error) {
	args := m.Called(ctx, receiverID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Sent]), args.Error(1)
}

func (m *MockSentRepository) TransitionStatus(ctx context.Context, s *model.Sent, hist *model.SentStatusHistory) error {
	args := m.Called(ctx, s, hist)
	return args.Error(0)
}

type MockStatusHistoryRepository struct {
	mock.Mock
}

func (m *MockStatusHistoryRepository) ListBySent(ctx context.Context, sentID string) ([]model.SentStatusHistory, error) {
	args := m.Called(ctx, sentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SentStatusHistory), args.Error(1)
}
