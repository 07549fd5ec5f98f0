// Package announce posts configured messages on a schedule.
package announce

import (
	"context"
	"fmt"

	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/plugin"
	"github.com/slackard/slackard/internal/registry"
	"github.com/slackard/slackard/internal/scheduler"
)

// Plugin is the announce plugin.
type Plugin struct {
	announcements []config.Announcement
}

func New(announcements []config.Announcement) *Plugin {
	return &Plugin{announcements: announcements}
}

func (p *Plugin) Name() string { return "announce" }

// Register adds one timed task per announcement. Any invalid entry fails
// the whole plugin.
func (p *Plugin) Register(reg *registry.Registry, bot plugin.Bot) error {
	type task struct {
		name string
		days scheduler.Days
		a    config.Announcement
	}
	tasks := make([]task, 0, len(p.announcements))
	for i, a := range p.announcements {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("announce-%d", i+1)
		}
		if a.Interval <= 0 {
			return fmt.Errorf("announcement %s: interval must be positive", name)
		}
		days, err := scheduler.ParseDays(a.Days)
		if err != nil {
			return fmt.Errorf("announcement %s: %w", name, err)
		}
		tasks = append(tasks, task{name: name, days: days, a: a})
	}

	for _, t := range tasks {
		msg := t.a.Message
		reg.AddNamedTimedTask(t.name, t.a.Interval, t.a.Start, t.a.EndHour(), t.days, func(ctx context.Context) error {
			return bot.Speak(ctx, msg)
		})
	}
	return nil
}
