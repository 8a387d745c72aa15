package services_test

import (
	"sync"
	"time"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
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

func date(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dates(ss ...string) domain.DateSeries {
	out := make(domain.DateSeries, len(ss))
	for i, s := range ss {
		out[i] = date(s)
	}
	return out
}

func tod(s string) domain.TimeOfDay {
	return domain.MustTimeOfDay(s)
}
