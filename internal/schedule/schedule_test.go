package schedule

import (
	"context"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.August, 30, hour, minute, 0, 0, time.UTC)
}

func TestNextRun(t *testing.T) {
	s := New([]int{9, 12, 15, 18, 21}, 5, nil)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before first hour", at(7, 30), at(9, 0)},
		{"between hours", at(13, 45), at(15, 0)},
		{"exactly on an hour", at(12, 0), at(15, 0)},
		{"after last hour", at(22, 10), at(9, 0).AddDate(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.NextRun(tt.now); !got.Equal(tt.want) {
				t.Errorf("NextRun(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestNewCleansHours(t *testing.T) {
	s := New([]int{21, 9, 9, 25, -1, 12}, 5, nil)
	if got := s.NextRun(at(10, 0)); !got.Equal(at(12, 0)) {
		t.Errorf("expected cleaned, sorted hours, next run %v", got)
	}
}

func TestFireDailyLimit(t *testing.T) {
	var runs int
	s := New([]int{9}, 2, func(context.Context) bool {
		runs++
		return true
	})

	for i := 0; i < 5; i++ {
		s.fire(context.Background(), at(9, 0))
	}
	if runs != 2 {
		t.Errorf("expected 2 runs under a limit of 2, got %d", runs)
	}
}

func TestFireResetsAtDayRollover(t *testing.T) {
	var runs int
	s := New([]int{9}, 1, func(context.Context) bool {
		runs++
		return true
	})

	s.fire(context.Background(), at(9, 0))
	s.fire(context.Background(), at(21, 0))
	s.fire(context.Background(), at(9, 0).AddDate(0, 0, 1))
	if runs != 2 {
		t.Errorf("expected the counter to reset on a new day, got %d runs", runs)
	}
}

func TestFireEmptyCycleKeepsBudget(t *testing.T) {
	var runs int
	s := New([]int{9}, 1, func(context.Context) bool {
		runs++
		return false // nothing published
	})

	s.fire(context.Background(), at(9, 0))
	s.fire(context.Background(), at(12, 0))
	if runs != 2 {
		t.Errorf("expected empty cycles not to consume the budget, got %d runs", runs)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New([]int{9}, 5, func(context.Context) bool { return false })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}
