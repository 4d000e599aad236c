package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassStoreCommands(t *testing.T) {
	t.Parallel()

	var gotArgs []string
	var gotStdin string
	store := &PassStore{run: func(_ context.Context, stdin string, args ...string) (string, string, error) {
		gotArgs = args
		gotStdin = stdin
		return "", "", nil
	}}

	require.NoError(t, store.Put(context.Background(), webhookKey, "https://hooks.example/1"))
	assert.Equal(t, []string{"insert", "--multiline", "--force", webhookKey}, gotArgs)
	assert.Equal(t, "https://hooks.example/1\n", gotStdin)

	require.NoError(t, store.Delete(context.Background(), webhookKey))
	assert.Equal(t, []string{"rm", "--force", webhookKey}, gotArgs)
	assert.Empty(t, gotStdin)
}

func TestPassStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &PassStore{run: func(_ context.Context, _ string, args ...string) (string, string, error) {
		assert.Equal(t, []string{"show", webhookKey}, args)
		return "https://hooks.example/1\r\nlogin: bot\n", "", nil
	}}

	value, err := store.Get(context.Background(), webhookKey)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example/1", value)
}

func TestPassStoreMapsMissingEntry(t *testing.T) {
	t.Parallel()

	store := &PassStore{run: func(context.Context, string, ...string) (string, string, error) {
		return "", "Error: camrelay/notify/webhook_url is not in the password store.", errors.New("exit status 1")
	}}

	_, err := store.Get(context.Background(), webhookKey)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)

	assert.NoError(t, store.Delete(context.Background(), webhookKey))
}

func TestPassStoreKeepsStderrInErrors(t *testing.T) {
	t.Parallel()

	store := &PassStore{run: func(context.Context, string, ...string) (string, string, error) {
		return "", "gpg: decryption failed: No secret key", errors.New("exit status 2")
	}}

	_, err := store.Get(context.Background(), webhookKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "No secret key")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}
