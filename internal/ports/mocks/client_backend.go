package mocks

import (
	"context"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/stretchr/testify/mock"
)

type MockClientBackend struct {
	mock.Mock
}

var _ ports.ClientBackend = (*MockClientBackend)(nil)

func NewMockClientBackend(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClientBackend {
	m := &MockClientBackend{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClientBackend) ListClients(ctx context.Context) ([]domain.ClientIdentity, error) {
	args := m.Called(ctx)
	clients, _ := args.Get(0).([]domain.ClientIdentity)
	return clients, args.Error(1)
}

func (m *MockClientBackend) CameraStatus(ctx context.Context, client domain.ClientIdentity) (domain.CameraState, error) {
	args := m.Called(ctx, client)
	state, _ := args.Get(0).(domain.CameraState)
	return state, args.Error(1)
}

func (m *MockClientBackend) ToggleCamera(ctx context.Context, client domain.ClientIdentity) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientBackend) SwitchCamera(ctx context.Context, client domain.ClientIdentity, on bool) error {
	return m.Called(ctx, client, on).Error(0)
}

func (m *MockClientBackend) BlinkCamera(ctx context.Context, client domain.ClientIdentity, repeat, delay int) error {
	return m.Called(ctx, client, repeat, delay).Error(0)
}

func (m *MockClientBackend) CloseClient(ctx context.Context, client domain.ClientIdentity) error {
	return m.Called(ctx, client).Error(0)
}
