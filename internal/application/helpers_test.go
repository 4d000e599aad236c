package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/camrelay/internal/domain"
	"github.com/stretchr/testify/mock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mockAnyContext() any {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

var (
	clientA = domain.ClientIdentity{Host: "10.0.0.1", Port: 9000}
	clientB = domain.ClientIdentity{Host: "10.0.0.2", Port: 9001}
)
