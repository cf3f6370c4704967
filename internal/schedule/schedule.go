// Package schedule fires publishing cycles at fixed local hours, with a
// cap on posts per day. The cap counts successful publications only; a
// cycle that finds nothing to post doesn't use up the budget.
package schedule

import (
	"context"
	"log"
	"sort"
	"time"
)

// Scheduler runs a publishing function at each configured hour.
type Scheduler struct {
	hours []int
	limit int
	run   func(ctx context.Context) bool
	now   func() time.Time

	currentDay string
	posted     int
}

// New creates a scheduler. run reports whether a post went live. Hours
// are wall-clock hours in local time; duplicates and out-of-range
// values are dropped.
func New(hours []int, dailyLimit int, run func(ctx context.Context) bool) *Scheduler {
	seen := make(map[int]bool)
	var clean []int
	for _, h := range hours {
		if h < 0 || h > 23 || seen[h] {
			continue
		}
		seen[h] = true
		clean = append(clean, h)
	}
	sort.Ints(clean)

	return &Scheduler{
		hours: clean,
		limit: dailyLimit,
		run:   run,
		now:   time.Now,
	}
}

// NextRun returns the first posting time strictly after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	for _, h := range s.hours {
		at := time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, now.Location())
		if at.After(now) {
			return at
		}
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), s.hours[0], 0, 0, 0, now.Location())
}

// Run blocks, firing cycles until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.hours) == 0 {
		log.Println("no posting hours configured, nothing to schedule")
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		next := s.NextRun(s.now())
		log.Printf("next publishing cycle at %s", next.Format("2006-01-02 15:04"))
		if err := s.sleepUntil(ctx, next); err != nil {
			return err
		}
		s.fire(ctx, next)
	}
}

// fire runs one cycle, resetting the daily counter when the day rolls
// over and skipping the cycle once the cap is hit.
func (s *Scheduler) fire(ctx context.Context, at time.Time) {
	day := at.Format("2006-01-02")
	if day != s.currentDay {
		s.currentDay = day
		s.posted = 0
	}
	if s.limit > 0 && s.posted >= s.limit {
		log.Printf("daily limit of %d posts reached, skipping cycle", s.limit)
		return
	}
	if s.run(ctx) {
		s.posted++
		log.Printf("published %d/%d posts today", s.posted, s.limit)
	}
}

func (s *Scheduler) sleepUntil(ctx context.Context, at time.Time) error {
	timer := time.NewTimer(at.Sub(s.now()))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
