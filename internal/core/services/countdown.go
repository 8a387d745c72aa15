package services

import (
	"sync"
	"time"

	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

// DefaultCountdownBudget is how long a customer is shown to have to finish
// a booking once fields are reserved.
const DefaultCountdownBudget = 900 * time.Second

// Countdown is an advisory timer shown to the customer. Reaching zero does
// not invalidate anything; the reservation service enforces real expiry.
type Countdown struct {
	mu        sync.Mutex
	clock     ports.Clock
	budget    time.Duration
	startedAt *time.Time
}

func NewCountdown(clock ports.Clock, budget time.Duration) *Countdown {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if budget <= 0 {
		budget = DefaultCountdownBudget
	}
	return &Countdown{clock: clock, budget: budget}
}

// Start (re)starts the countdown from the full budget.
func (c *Countdown) Start() {
	c.StartAt(c.clock.Now())
}

// StartAt resumes a countdown that started at t.
func (c *Countdown) StartAt(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startedAt = &t
}

func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startedAt = nil
}

func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt != nil
}

func (c *Countdown) StartedAt() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startedAt == nil {
		return nil
	}
	t := *c.startedAt
	return &t
}

// Remaining returns the full budget while stopped and never goes below zero.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startedAt == nil {
		return c.budget
	}
	left := c.budget - c.clock.Now().Sub(*c.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

func (c *Countdown) Expired() bool {
	return c.Running() && c.Remaining() == 0
}

func (c *Countdown) Budget() time.Duration {
	return c.budget
}
