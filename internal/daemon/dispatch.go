package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slackard/slackard/internal/gateway"
)

const botMessageSubtype = "bot_message"

// isSelf reports whether m was posted by this bot.
func (d *Daemon) isSelf(m gateway.Message) bool {
	return m.SubType == botMessageSubtype && m.Username == d.settings.BotName
}

// dispatch delivers one message to the firehose handlers, then matching
// subscriptions, then matching command bindings. Handler failures are
// logged and never stop the remaining handlers.
func (d *Daemon) dispatch(ctx context.Context, m gateway.Message) int {
	if m.Text == "" {
		return 0
	}
	if d.isSelf(m) {
		slog.Debug("daemon: skipping own message", "ts", m.TS)
		return 0
	}
	slog.Info("daemon: message", "ts", m.TS, "user", m.User, "text", m.Text)

	fired := 0
	for i, h := range d.reg.Firehoses() {
		d.invoke("firehose", fmt.Sprint(i), func() error { return h(ctx, m.Text) })
		fired++
	}
	for _, s := range d.reg.Subscriptions() {
		if !s.Pattern.MatchString(m.Text) {
			continue
		}
		d.invoke("subscription", s.Pattern.String(), func() error { return s.Handler(ctx, m.Text) })
		fired++
	}
	if cmd, ok := d.parser.Parse(m.Text); ok {
		for _, b := range d.reg.Commands() {
			if b.Name != cmd.Name {
				continue
			}
			d.invoke("command", b.Name, func() error { return b.Handler(ctx, cmd.Args) })
			fired++
		}
	}
	return fired
}

// invoke runs one handler, converting a panic into a logged error.
func (d *Daemon) invoke(kind, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("daemon: handler panicked", "kind", kind, "handler", name, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		slog.Error("daemon: handler failed", "kind", kind, "handler", name, "err", err)
	}
}
