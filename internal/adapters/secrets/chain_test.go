package secrets

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const webhookKey = "camrelay/notify/webhook_url"

func newTestChain(t *testing.T) (*Chain, *mocks.MockSecretStore, *mocks.MockSecretStore) {
	t.Helper()

	primary := mocks.NewMockSecretStore(t)
	fallback := mocks.NewMockSecretStore(t)
	chain, err := NewChain(primary, fallback)
	require.NoError(t, err)
	return chain, primary, fallback
}

func TestNewChainRejectsMissingStores(t *testing.T) {
	_, err := NewChain()
	require.Error(t, err)

	_, err = NewChain(NewFileStore(t.TempDir()), nil)
	assert.ErrorContains(t, err, "secret store 1 is nil")
}

func TestChainGetStopsAtFirstHit(t *testing.T) {
	t.Parallel()

	chain, primary, _ := newTestChain(t)
	primary.On("Get", mock.Anything, webhookKey).Return("https://hooks.example/a", nil).Once()

	value, err := chain.Get(context.Background(), webhookKey)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example/a", value)
}

func TestChainGetFallsThrough(t *testing.T) {
	t.Parallel()

	chain, primary, fallback := newTestChain(t)
	primary.On("Get", mock.Anything, webhookKey).Return("", ErrPassUnavailable).Once()
	fallback.On("Get", mock.Anything, webhookKey).Return("https://hooks.example/b", nil).Once()

	value, err := chain.Get(context.Background(), webhookKey)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example/b", value)
}

func TestChainGetReportsNotFoundWhenNoStoreHasKey(t *testing.T) {
	t.Parallel()

	chain, primary, fallback := newTestChain(t)
	primary.On("Get", mock.Anything, webhookKey).Return("", ErrPassUnavailable).Once()
	fallback.On("Get", mock.Anything, webhookKey).Return("", fmt.Errorf("file: %w", domain.ErrSecretNotFound)).Once()

	_, err := chain.Get(context.Background(), webhookKey)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestChainGetJoinsRealFailures(t *testing.T) {
	t.Parallel()

	chain, primary, fallback := newTestChain(t)
	primary.On("Get", mock.Anything, webhookKey).Return("", errors.New("gpg agent locked")).Once()
	fallback.On("Get", mock.Anything, webhookKey).Return("", errors.New("permission denied")).Once()

	_, err := chain.Get(context.Background(), webhookKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "gpg agent locked")
	assert.ErrorContains(t, err, "permission denied")
}

func TestChainGetStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	chain, primary, _ := newTestChain(t)
	primary.On("Get", mock.Anything, webhookKey).Return("", context.Canceled).Once()

	_, err := chain.Get(context.Background(), webhookKey)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChainPutUsesFirstWritableStore(t *testing.T) {
	t.Parallel()

	chain, primary, fallback := newTestChain(t)
	primary.On("Put", mock.Anything, webhookKey, "https://hooks.example/c").Return(ErrPassUnavailable).Once()
	fallback.On("Put", mock.Anything, webhookKey, "https://hooks.example/c").Return(nil).Once()

	require.NoError(t, chain.Put(context.Background(), webhookKey, "https://hooks.example/c"))
}

func TestChainPutSkipsFallbackWhenPrimaryAccepts(t *testing.T) {
	t.Parallel()

	chain, primary, _ := newTestChain(t)
	primary.On("Put", mock.Anything, webhookKey, "v").Return(nil).Once()

	require.NoError(t, chain.Put(context.Background(), webhookKey, "v"))
}

func TestChainDeleteReachesEveryStore(t *testing.T) {
	t.Parallel()

	chain, primary, fallback := newTestChain(t)
	primary.On("Delete", mock.Anything, webhookKey).Return(nil).Once()
	fallback.On("Delete", mock.Anything, webhookKey).Return(nil).Once()

	require.NoError(t, chain.Delete(context.Background(), webhookKey))
}

func TestChainDeleteFailsOnlyWhenEveryStoreFails(t *testing.T) {
	t.Parallel()

	chain, primary, fallback := newTestChain(t)
	primary.On("Delete", mock.Anything, webhookKey).Return(ErrPassUnavailable).Once()
	fallback.On("Delete", mock.Anything, webhookKey).Return(errors.New("read-only filesystem")).Once()

	err := chain.Delete(context.Background(), webhookKey)
	assert.ErrorContains(t, err, "read-only filesystem")
}
