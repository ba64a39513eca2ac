package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// TimerOptions configures when dump runs happen.
type TimerOptions struct {
	Once      bool
	Cron      string
	Begin     string
	Frequency int
}

var (
	beginDelayRe = regexp.MustCompile(`^\+([0-9]+)$`)
	beginClockRe = regexp.MustCompile(`^([0-9][0-9])([0-9][0-9])$`)
)

// Timer runs cmd per the schedule options: immediately once, or repeatedly
// per a cron expression, a begin time and a fixed frequency in minutes.
// In the repeating case it returns only when cmd fails.
func (e *Executor) Timer(opts TimerOptions, cmd func() error) error {
	if opts.Once {
		return cmd()
	}
	if opts.Cron == "" && opts.Frequency <= 0 {
		return fmt.Errorf("scheduled runs need either a cron expression or a positive frequency")
	}
	delay, err := initialDelay(opts, time.Now())
	if err != nil {
		return err
	}
	for {
		time.Sleep(delay)
		lastRun := time.Now()
		if err := cmd(); err != nil {
			return err
		}
		if opts.Cron != "" {
			if delay, err = waitForCron(opts.Cron, time.Now()); err != nil {
				return err
			}
			continue
		}
		// wait out the remainder of the current frequency window; a run
		// longer than the window rolls over into the next one
		elapsed := int(time.Since(lastRun).Minutes())
		if elapsed == 0 {
			elapsed += opts.Frequency
		}
		delay = time.Duration(opts.Frequency-elapsed%opts.Frequency) * time.Minute
	}
}

// initialDelay calculates the wait before the first scheduled run.
func initialDelay(opts TimerOptions, now time.Time) (time.Duration, error) {
	if opts.Cron != "" {
		d, err := waitForCron(opts.Cron, now)
		if err != nil {
			return 0, fmt.Errorf("invalid cron format '%s': %v", opts.Cron, err)
		}
		return d, nil
	}
	if opts.Begin == "" {
		return 0, nil
	}
	if m := beginDelayRe.FindStringSubmatch(opts.Begin); m != nil {
		mins, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid format for begin delay '%s': %v", opts.Begin, err)
		}
		return time.Duration(mins) * time.Minute, nil
	}
	if m := beginClockRe.FindStringSubmatch(opts.Begin); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		return next.Sub(now), nil
	}
	return 0, fmt.Errorf("invalid format for begin delay '%s'", opts.Begin)
}

// waitForCron calculates the wait until the next cron match, allowing a
// match on the current instant.
func waitForCron(cronExpr string, from time.Time) (time.Duration, error) {
	sched, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return 0, err
	}
	// sched.Next matches strictly after its argument; start 1ns early so the
	// current instant can match
	next := sched.Next(from.Add(-1 * time.Nanosecond))
	return next.Sub(from), nil
}
