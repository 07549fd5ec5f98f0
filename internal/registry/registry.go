// Package registry holds the callbacks the daemon dispatches messages and
// timed work to. It is populated once at startup and only read afterwards.
package registry

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/slackard/slackard/internal/scheduler"
)

// TextHandler receives the text of a message.
type TextHandler func(ctx context.Context, text string) error

// CommandHandler receives the argument string of a command.
type CommandHandler func(ctx context.Context, args string) error

// Subscription fires a handler whenever Pattern matches a message.
type Subscription struct {
	Pattern *regexp.Regexp
	Handler TextHandler
}

// CommandBinding fires a handler for an addressed command named Name.
type CommandBinding struct {
	Name    string
	Handler CommandHandler
}

// InvalidPatternError reports a subscription pattern that does not compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid subscription pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Registry is the ordered set of subscriptions, commands, firehose
// handlers and timed tasks. Duplicate names and patterns are allowed;
// every matching entry fires.
type Registry struct {
	subscriptions []Subscription
	commands      []CommandBinding
	firehoses     []TextHandler
	tasks         []*scheduler.TimedTask
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// AddSubscription registers h for messages matching pattern anywhere in
// their text, case-insensitively. A pattern that fails to compile is not
// registered.
func (r *Registry) AddSubscription(pattern string, h TextHandler) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return &InvalidPatternError{Pattern: pattern, Err: err}
	}
	r.subscriptions = append(r.subscriptions, Subscription{Pattern: re, Handler: h})
	return nil
}

// AddCommand registers h for the command name (case-sensitive).
func (r *Registry) AddCommand(name string, h CommandHandler) {
	r.commands = append(r.commands, CommandBinding{Name: name, Handler: h})
}

// AddFirehose registers h for every message that has text.
func (r *Registry) AddFirehose(h TextHandler) {
	r.firehoses = append(r.firehoses, h)
}

// AddTimedTask registers fn to run every interval while the clock is inside
// hours [start, end] on the enabled days.
func (r *Registry) AddTimedTask(interval time.Duration, start, end int, days scheduler.Days, fn scheduler.TaskFunc) *scheduler.TimedTask {
	return r.AddNamedTimedTask(fmt.Sprintf("task-%d", len(r.tasks)+1), interval, start, end, days, fn)
}

// AddNamedTimedTask is AddTimedTask with a name used in logs.
func (r *Registry) AddNamedTimedTask(name string, interval time.Duration, start, end int, days scheduler.Days, fn scheduler.TaskFunc) *scheduler.TimedTask {
	t := scheduler.NewTimedTask(name, interval, start, end, days, fn)
	r.tasks = append(r.tasks, t)
	return t
}

func (r *Registry) Subscriptions() []Subscription { return r.subscriptions }
func (r *Registry) Commands() []CommandBinding    { return r.commands }
func (r *Registry) Firehoses() []TextHandler      { return r.firehoses }
func (r *Registry) Tasks() []*scheduler.TimedTask { return r.tasks }

// CommandNames returns the distinct registered command names, sorted.
func (r *Registry) CommandNames() []string {
	seen := make(map[string]bool, len(r.commands))
	var names []string
	for _, c := range r.commands {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether nothing has been registered.
func (r *Registry) Empty() bool {
	return len(r.subscriptions) == 0 && len(r.commands) == 0 &&
		len(r.firehoses) == 0 && len(r.tasks) == 0
}
