package clock

import (
	"sync"
	"time"
)

// MockClock allows manual control of time for testing. Tickers only fire
// from Advance, never on their own.
type MockClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*MockTicker
}

// NewMockClock creates a MockClock starting at the given time.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{
		now: start,
	}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker returns a ticker whose first tick is due one period from now.
func (c *MockClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTicker{
		ch:     make(chan time.Time, 100),
		period: d,
		last:   c.now,
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves the clock forward by d, firing any tickers as needed.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	tickers := append([]*MockTicker(nil), c.tickers...)
	c.mu.Unlock()
	for _, t := range tickers {
		t.tickIfDue(now)
	}
}

// MockTicker implements Ticker for MockClock.
type MockTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	period  time.Duration
	last    time.Time
	stopped bool
}

func (t *MockTicker) C() <-chan time.Time {
	return t.ch
}

// Stop prevents further ticks. Like time.Ticker, it does not close the channel.
func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *MockTicker) tickIfDue(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.period <= 0 {
		return
	}
	for !t.last.Add(t.period).After(now) {
		t.last = t.last.Add(t.period)
		select {
		case t.ch <- t.last:
		default:
		}
	}
}
