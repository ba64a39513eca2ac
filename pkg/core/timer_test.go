package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitForCron(t *testing.T) {
	tests := []struct {
		name     string
		cron     string
		from     time.Time
		expected time.Duration
		err      string
	}{
		{"current minute matches", "0 * * * *", time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC), 0, ""},
		{"top of next hour", "0 * * * *", time.Date(2021, 1, 1, 10, 30, 0, 0, time.UTC), 30 * time.Minute, ""},
		{"daily at 2am", "0 2 * * *", time.Date(2021, 1, 1, 3, 0, 0, 0, time.UTC), 23 * time.Hour, ""},
		{"seconds round up", "0 * * * *", time.Date(2021, 1, 1, 10, 59, 30, 0, time.UTC), 30 * time.Second, ""},
		{"invalid expression", "not a cron line", time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC), 0, "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wait, err := waitForCron(tt.cron, tt.from)
			if tt.err != "" {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, wait)
		})
	}
}

func TestInitialDelay(t *testing.T) {
	now := time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		opts     TimerOptions
		expected time.Duration
		err      string
	}{
		{"no begin runs immediately", TimerOptions{Frequency: 60}, 0, ""},
		{"relative begin", TimerOptions{Begin: "+25", Frequency: 60}, 25 * time.Minute, ""},
		{"clock begin later today", TimerOptions{Begin: "1430", Frequency: 60}, 4*time.Hour + 30*time.Minute, ""},
		{"clock begin already passed", TimerOptions{Begin: "0930", Frequency: 60}, 23*time.Hour + 30*time.Minute, ""},
		{"cron wins over begin", TimerOptions{Cron: "30 * * * *", Begin: "+5"}, 30 * time.Minute, ""},
		{"invalid cron", TimerOptions{Cron: "* * * *"}, 0, "invalid cron format"},
		{"invalid begin", TimerOptions{Begin: "tomorrow", Frequency: 60}, 0, "invalid format for begin delay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delay, err := initialDelay(tt.opts, now)
			if tt.err != "" {
				assert.ErrorContains(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, delay)
		})
	}
}

func TestTimerOnce(t *testing.T) {
	e := &Executor{}

	runs := 0
	err := e.Timer(TimerOptions{Once: true}, func() error {
		runs++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, runs)

	err = e.Timer(TimerOptions{Once: true}, func() error {
		runs++
		return errors.New("dump blew up")
	})
	assert.ErrorContains(t, err, "dump blew up")
	assert.Equal(t, 2, runs)
}

func TestTimerNoSchedule(t *testing.T) {
	e := &Executor{}
	err := e.Timer(TimerOptions{}, func() error {
		t.Fatal("command must not run without a schedule")
		return nil
	})
	assert.ErrorContains(t, err, "cron expression or a positive frequency")
}

func TestTimerStopsOnFailure(t *testing.T) {
	e := &Executor{}
	runs := 0
	err := e.Timer(TimerOptions{Frequency: 60}, func() error {
		runs++
		return errors.New("connection refused")
	})
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 1, runs)
}
