package mocks

import (
	"context"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
	"github.com/stretchr/testify/mock"
)

type MockSessionStore struct {
	mock.Mock
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionStore {
	m := &MockSessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionStore) Load(ctx context.Context) (domain.ClientIdentity, error) {
	args := m.Called(ctx)
	client, _ := args.Get(0).(domain.ClientIdentity)
	return client, args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, client domain.ClientIdentity) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockSessionStore) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
