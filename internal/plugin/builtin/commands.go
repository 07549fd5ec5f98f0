package builtin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slackard/slackard/internal/plugin"
	"github.com/slackard/slackard/internal/registry"
	"github.com/slackard/slackard/internal/shared/stringutils"
)

const (
	chatlogMaxChars = 500
	chatlogKeep     = 200
)

// echo repeats its arguments.
type echo struct{}

func (echo) Name() string { return "echo" }

func (echo) Register(reg *registry.Registry, bot plugin.Bot) error {
	reg.AddCommand("echo", func(ctx context.Context, args string) error {
		if args == "" {
			return nil
		}
		return bot.Speak(ctx, args)
	})
	return nil
}

// greet says hello to whoever is named.
type greet struct{}

func (greet) Name() string { return "greet" }

func (greet) Register(reg *registry.Registry, bot plugin.Bot) error {
	reg.AddCommand("greet", func(ctx context.Context, args string) error {
		if args == "" {
			return bot.Speak(ctx, "Hello!")
		}
		return bot.Speak(ctx, fmt.Sprintf("Hello, %s!", args))
	})
	return nil
}

// help lists the registered commands. The list is read when the command
// runs, so plugins loaded after help are included.
type help struct {
	nick string
}

func (help) Name() string { return "help" }

func (h help) Register(reg *registry.Registry, bot plugin.Bot) error {
	reg.AddCommand("help", func(ctx context.Context, _ string) error {
		names := reg.CommandNames()
		return bot.Paste(ctx, fmt.Sprintf("Commands: %s (try \"%s <command>\")",
			strings.Join(names, ", "), h.nick))
	})
	return nil
}

// topic sets the channel topic. Without arguments it does nothing.
type topic struct{}

func (topic) Name() string { return "topic" }

func (topic) Register(reg *registry.Registry, bot plugin.Bot) error {
	reg.AddCommand("topic", func(ctx context.Context, args string) error {
		if args == "" {
			return nil
		}
		return bot.SetTopic(ctx, args)
	})
	return nil
}

// chatlog writes every message to the debug log and keeps the most recent
// ones; the chatlog command uploads them as a text file. Handlers all run on
// the dispatch goroutine, so lines needs no lock.
type chatlog struct {
	lines []string
}

func (*chatlog) Name() string { return "chatlog" }

func (c *chatlog) Register(reg *registry.Registry, bot plugin.Bot) error {
	reg.AddFirehose(func(_ context.Context, text string) error {
		slog.Debug("chatlog: message", "text", stringutils.Truncate(text, chatlogMaxChars))
		c.record(text)
		return nil
	})
	reg.AddCommand("chatlog", func(ctx context.Context, _ string) error {
		if len(c.lines) == 0 {
			return bot.Speak(ctx, "Nothing logged yet.")
		}
		content := strings.Join(c.lines, "\n") + "\n"
		return bot.Upload(ctx, []byte(content), "chatlog.txt", "Recent messages")
	})
	return nil
}

func (c *chatlog) record(text string) {
	c.lines = append(c.lines, stringutils.Truncate(text, chatlogMaxChars))
	if n := len(c.lines) - chatlogKeep; n > 0 {
		c.lines = append(c.lines[:0], c.lines[n:]...)
	}
}
