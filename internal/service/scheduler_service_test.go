package service

import (
	"testing"
	"time"
)

func TestScheduleDailyHourValidatesRange(t *testing.T) {
	s := NewSchedulerService(time.UTC)

	for _, hour := range []int{-1, 24, 100} {
		if _, err := s.ScheduleDailyHour(hour, func() {}); err == nil {
			t.Errorf("hour %d: expected error", hour)
		}
	}

	for _, hour := range []int{0, 8, 23} {
		if _, err := s.ScheduleDailyHour(hour, func() {}); err != nil {
			t.Errorf("hour %d: unexpected error: %v", hour, err)
		}
	}
}
