// Package scheduler decides, once per poll cycle, which timed tasks are due.
//
// A task is eligible while the current weekday is enabled in its Days mask
// and the current hour lies within [Start, End]. An End of 24 or more means
// the window has no upper bound. Inside the window a task runs on the first
// evaluation and then again each time Interval has elapsed since its last run.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	robfigcron "github.com/robfig/cron/v3"
)

// TaskFunc is the body of a timed task.
type TaskFunc func(ctx context.Context) error

// Days is a day-of-week mask indexed by time.Weekday, so Days[0] is
// Sunday and Days[1] is Monday. Masks written Monday-first must be rotated
// by one; prefer ParseDays, AllDays or Weekdays over raw literals.
type Days [7]bool

var (
	// AllDays enables every day of the week.
	AllDays = Days{true, true, true, true, true, true, true}
	// Weekdays enables Monday through Friday.
	Weekdays = Days{false, true, true, true, true, true, false}
)

// On reports whether d is enabled.
func (days Days) On(d time.Weekday) bool { return days[d] }

func (days Days) String() string {
	var names []string
	for i, on := range days {
		if on {
			names = append(names, time.Weekday(i).String()[:3])
		}
	}
	if len(names) == 0 {
		return "never"
	}
	return strings.Join(names, ",")
}

// dowParser reads a single cron day-of-week field.
var dowParser = robfigcron.NewParser(robfigcron.Dow)

// ParseDays turns a cron day-of-week expression ("MON-FRI", "sat,sun",
// "1-5", "*") into a Days mask. An empty expression enables every day.
func ParseDays(expr string) (Days, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return AllDays, nil
	}
	sched, err := dowParser.Parse(expr)
	if err != nil {
		return Days{}, fmt.Errorf("parse days %q: %w", expr, err)
	}
	spec, ok := sched.(*robfigcron.SpecSchedule)
	if !ok {
		return Days{}, fmt.Errorf("parse days %q: unexpected schedule %T", expr, sched)
	}
	var days Days
	for i := range days {
		days[i] = spec.Dow&(1<<uint(i)) != 0
	}
	return days, nil
}

// TimedTask is a callback run periodically inside an hour/day window.
type TimedTask struct {
	Name     string
	Interval time.Duration
	Start    int
	End      int
	Days     Days
	Run      TaskFunc

	lastRun time.Time
	hasRun  bool
}

// NewTimedTask returns a task that has never run.
func NewTimedTask(name string, interval time.Duration, start, end int, days Days, fn TaskFunc) *TimedTask {
	return &TimedTask{
		Name:     name,
		Interval: interval,
		Start:    start,
		End:      end,
		Days:     days,
		Run:      fn,
	}
}

// LastRun returns when the task last ran, and false if it never has.
func (t *TimedTask) LastRun() (time.Time, bool) { return t.lastRun, t.hasRun }

// InWindow reports whether now falls inside the task's day and hour window.
func (t *TimedTask) InWindow(now time.Time) bool {
	if !t.Days.On(now.Weekday()) {
		return false
	}
	h := now.Hour()
	if h < t.Start {
		return false
	}
	return t.End >= 24 || h <= t.End
}

// Due reports whether the task should run at now.
func (t *TimedTask) Due(now time.Time) bool {
	if !t.InWindow(now) {
		return false
	}
	if !t.hasRun {
		return true
	}
	return now.Sub(t.lastRun) >= t.Interval
}

// Scheduler evaluates timed tasks against a clock location.
type Scheduler struct {
	loc *time.Location
}

// New creates a Scheduler that evaluates windows in loc (nil = time.Local).
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{loc: loc}
}

// Location returns the time zone windows are evaluated in.
func (s *Scheduler) Location() *time.Location { return s.loc }

// Evaluate runs every due task in order and stamps its last run with now.
// A failing or panicking task is logged and still stamped so it does not
// retry every cycle. Evaluate must not be called concurrently.
func (s *Scheduler) Evaluate(ctx context.Context, now time.Time, tasks []*TimedTask) int {
	now = now.In(s.loc)
	ran := 0
	for _, t := range tasks {
		if !t.Due(now) {
			continue
		}
		slog.Debug("scheduler: running timed task", "task", t.Name)
		if err := runTask(ctx, t); err != nil {
			slog.Error("scheduler: timed task failed", "task", t.Name, "err", err)
		}
		t.lastRun = now
		t.hasRun = true
		ran++
	}
	return ran
}

func runTask(ctx context.Context, t *TimedTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if t.Run == nil {
		return nil
	}
	return t.Run(ctx)
}
