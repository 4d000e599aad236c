package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports"
)

var errNoStores = errors.New("secret chain has no stores")

// Chain consults its stores in order. Reads return the first hit, writes
// land in the first store that accepts them and deletes reach every store.
type Chain struct {
	stores []ports.SecretStore
}

var _ ports.SecretStore = (*Chain)(nil)

func NewChain(stores ...ports.SecretStore) (*Chain, error) {
	if len(stores) == 0 {
		return nil, errNoStores
	}
	for i, store := range stores {
		if store == nil {
			return nil, fmt.Errorf("secret store %d is nil", i)
		}
	}

	return &Chain{stores: stores}, nil
}

// NewPassWithFileFallback prefers pass and falls back to files under root.
func NewPassWithFileFallback(root string) (*Chain, error) {
	return NewChain(NewPassStore(), NewFileStore(root))
}

func (c *Chain) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, store := range c.stores {
		value, err := store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if isContextErr(err) {
			return "", err
		}
		errs = append(errs, err)
	}

	if allNotFound(errs) {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return "", fmt.Errorf("get secret %q: %w", key, errors.Join(errs...))
}

func (c *Chain) Put(ctx context.Context, key, value string) error {
	var errs []error
	for _, store := range c.stores {
		err := store.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if isContextErr(err) {
			return err
		}
		errs = append(errs, err)
	}

	return fmt.Errorf("put secret %q: %w", key, errors.Join(errs...))
}

// Delete removes key from every store.
func (c *Chain) Delete(ctx context.Context, key string) error {
	var errs []error
	deleted := false
	for _, store := range c.stores {
		err := store.Delete(ctx, key)
		if err == nil {
			deleted = true
			continue
		}
		if isContextErr(err) {
			return err
		}
		errs = append(errs, err)
	}

	if deleted {
		return nil
	}
	return fmt.Errorf("delete secret %q: %w", key, errors.Join(errs...))
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func allNotFound(errs []error) bool {
	for _, err := range errs {
		if !errors.Is(err, domain.ErrSecretNotFound) && !errors.Is(err, ErrPassUnavailable) {
			return false
		}
	}
	return len(errs) > 0
}
