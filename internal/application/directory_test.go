package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/bnema/camrelay/internal/ports/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryListFiltersByPrefix(t *testing.T) {
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{clientA}, nil).Once()
	directory := NewDirectory(backend, newFakeClock(), DefaultStaleAfter, zerolog.Nop())

	assert.Equal(t, []string{"10.0.0.1:9000"}, directory.ListStrings(context.Background(), ""))
	assert.Empty(t, directory.ListStrings(context.Background(), "10.0.0.2"))
	assert.Equal(t, []domain.ClientIdentity{clientA}, directory.List(context.Background(), "10.0.0.1:9"))
}

func TestDirectoryPrefixIsCaseSensitive(t *testing.T) {
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{
		{Host: "Cam.local", Port: 9000},
		{Host: "cam.local", Port: 9001},
	}, nil).Once()
	directory := NewDirectory(backend, newFakeClock(), DefaultStaleAfter, zerolog.Nop())

	assert.Equal(t, []string{"cam.local:9001"}, directory.ListStrings(context.Background(), "cam"))
}

func TestDirectoryPreservesBackendOrder(t *testing.T) {
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{clientB, clientA}, nil).Once()
	directory := NewDirectory(backend, newFakeClock(), DefaultStaleAfter, zerolog.Nop())

	assert.Equal(t, []string{"10.0.0.2:9001", "10.0.0.1:9000"}, directory.ListStrings(context.Background(), "10.0.0."))
}

func TestDirectoryServesCacheWithinStalenessWindow(t *testing.T) {
	clock := newFakeClock()
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{clientA}, nil).Once()
	directory := NewDirectory(backend, clock, 10*time.Second, zerolog.Nop())

	first := directory.List(context.Background(), "")
	clock.Advance(9 * time.Second)
	second := directory.List(context.Background(), "")

	assert.Equal(t, first, second)
	backend.AssertNumberOfCalls(t, "ListClients", 1)
}

func TestDirectoryRefreshReplacesCacheWholesale(t *testing.T) {
	clock := newFakeClock()
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{clientA}, nil).Once()
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{clientB}, nil).Once()
	directory := NewDirectory(backend, clock, 10*time.Second, zerolog.Nop())

	assert.Equal(t, []domain.ClientIdentity{clientA}, directory.List(context.Background(), ""))

	clock.Advance(10 * time.Second)
	assert.Equal(t, []domain.ClientIdentity{clientB}, directory.List(context.Background(), ""))

	snapshot := directory.Snapshot()
	assert.Equal(t, []domain.ClientIdentity{clientB}, snapshot.Entries)
	assert.Equal(t, clock.Now(), snapshot.FetchedAt)
}

func TestDirectoryKeepsStaleCacheWhenRefreshFails(t *testing.T) {
	clock := newFakeClock()
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{clientA, clientB}, nil).Once()
	backend.On("ListClients", mockAnyContext()).Return(nil, fmt.Errorf("list clients: %w", domain.ErrBackendUnreachable)).Once()
	directory := NewDirectory(backend, clock, 10*time.Second, zerolog.Nop())

	before := directory.List(context.Background(), "")
	fetchedAt := directory.Snapshot().FetchedAt

	clock.Advance(11 * time.Second)
	after := directory.List(context.Background(), "")

	assert.Equal(t, before, after)
	assert.Equal(t, fetchedAt, directory.Snapshot().FetchedAt)
}

func TestDirectoryReturnsEmptyWhenNeverPopulatedAndBackendDown(t *testing.T) {
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return(nil, domain.ErrBackendUnreachable).Once()
	directory := NewDirectory(backend, newFakeClock(), DefaultStaleAfter, zerolog.Nop())

	clients := directory.List(context.Background(), "")
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestDirectoryFailedRefreshIsThrottledToOnePerWindow(t *testing.T) {
	clock := newFakeClock()
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return(nil, domain.ErrBackendUnreachable).Twice()
	directory := NewDirectory(backend, clock, 10*time.Second, zerolog.Nop())

	directory.List(context.Background(), "")
	clock.Advance(5 * time.Second)
	directory.List(context.Background(), "")
	backend.AssertNumberOfCalls(t, "ListClients", 1)

	clock.Advance(5 * time.Second)
	directory.List(context.Background(), "")
	backend.AssertNumberOfCalls(t, "ListClients", 2)
}

type ctxAwareLister struct {
	clients []domain.ClientIdentity
	calls   int
}

func (l *ctxAwareLister) ListClients(ctx context.Context) ([]domain.ClientIdentity, error) {
	l.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.clients, nil
}

func TestDirectoryRefreshIgnoresCallerCancellation(t *testing.T) {
	lister := &ctxAwareLister{clients: []domain.ClientIdentity{clientA}}
	directory := NewDirectory(lister, newFakeClock(), 10*time.Second, zerolog.Nop())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, []domain.ClientIdentity{clientA}, directory.List(cancelled, ""))
	assert.Equal(t, []string{"10.0.0.1:9000"}, directory.ListStrings(context.Background(), ""))
	assert.Equal(t, 1, lister.calls)
}

func TestDirectoryInvalidateForcesRefresh(t *testing.T) {
	backend := mocks.NewMockClientBackend(t)
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{clientA, clientB}, nil).Once()
	backend.On("ListClients", mockAnyContext()).Return([]domain.ClientIdentity{clientB}, nil).Once()
	directory := NewDirectory(backend, newFakeClock(), DefaultStaleAfter, zerolog.Nop())

	require.Len(t, directory.List(context.Background(), ""), 2)
	directory.Invalidate()
	assert.Equal(t, []domain.ClientIdentity{clientB}, directory.List(context.Background(), ""))
}

type blockingLister struct {
	calls   atomic.Int32
	release chan struct{}
}

func (l *blockingLister) ListClients(ctx context.Context) ([]domain.ClientIdentity, error) {
	l.calls.Add(1)
	select {
	case <-l.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []domain.ClientIdentity{clientA}, nil
}

func TestDirectoryConcurrentCallersShareOneRefresh(t *testing.T) {
	lister := &blockingLister{release: make(chan struct{})}
	directory := NewDirectory(lister, newFakeClock(), DefaultStaleAfter, zerolog.Nop())

	const callers = 20
	var started sync.WaitGroup
	var done sync.WaitGroup
	results := make([][]string, callers)
	for i := 0; i < callers; i++ {
		started.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i] = directory.ListStrings(context.Background(), "")
		}(i)
	}
	started.Wait()

	require.Eventually(t, func() bool { return lister.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(lister.release)
	done.Wait()

	assert.Equal(t, int32(1), lister.calls.Load())
	for _, result := range results {
		assert.Equal(t, []string{"10.0.0.1:9000"}, result)
	}
}
