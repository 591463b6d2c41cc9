package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/model"
	"github.com/Aekkarat1729/Easydoc-Backend-sub000/internal/service"
)

type MockRoutingService struct {
	mock.Mock
}

func (m *MockRoutingService) Send(ctx context.Context, in service.RouteInput) (*service.RoutingResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RoutingResult), args.Error(1)
}

func (m *MockRoutingService) Reply(ctx context.Context, parentSentID string, in service.RouteInput) (*service.RoutingResult, error) {
	args := m.Called(ctx, parentSentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RoutingResult), args.Error(1)
}

func (m *MockRoutingService) Forward(ctx context.Context, parentSentID string, in service.RouteInput) (*service.RoutingResult, error) {
	args := m.Called(ctx, parentSentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RoutingResult), args.Error(1)
}

type MockChainService struct {
	mock.Mock
}

func (m *MockChainService) BuildChain(ctx context.Context, sentID string) (*service.ChainView, error) {
	args := m.Called(ctx, sentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChainView), args.Error(1)
}

func (m *MockChainService) Thread(ctx context.Context, sentID string) (*service.ThreadView, error) {
	args := m.Called(ctx, sentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ThreadView), args.Error(1)
}

func (m *MockChainService) History(ctx context.Context, sentID string) ([]model.SentStatusHistory, error) {
	args := m.Called(ctx, sentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SentStatusHistory), args.Error(1)
}

func (m *MockChainService) Inbox(ctx context.Context, receiverID string, limit, offset int) (*service.InboxResult, error) {
	args := m.Called(ctx, receiverID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InboxResult), args.Error(1)
}

type MockStatusService struct {
	mock.Mock
}

func (m *MockStatusService) Transition(ctx context.Context, sentID string, requested model.Status, actorID string) (*model.Sent, error) {
	args := m.Called(ctx, sentID, requested, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sent), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, actorID string, att service.Attachment) (*model.Document, error) {
	args := m.Called(ctx, actorID, att)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListBySent(ctx context.Context, sentID string) ([]model.Document, error) {
	args := m.Called(ctx, sentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
