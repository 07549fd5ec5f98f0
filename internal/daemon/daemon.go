// Package daemon runs the poll loop: it connects to the channel, fetches
// new messages every cycle, dispatches them to the registry's handlers and
// evaluates timed tasks, reconnecting after recoverable failures.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/slackard/slackard/internal/command"
	"github.com/slackard/slackard/internal/gateway"
	"github.com/slackard/slackard/internal/registry"
	"github.com/slackard/slackard/internal/scheduler"
)

const (
	defaultCycleFloor     = 5 * time.Second
	defaultReconnectDelay = 5 * time.Second
)

// State is the loop's connection state.
type State int

const (
	StateConnecting State = iota
	StatePolling
	StateReconnecting
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StatePolling:
		return "polling"
	case StateReconnecting:
		return "reconnecting"
	case StateFatal:
		return "fatal"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Settings configures a Daemon.
type Settings struct {
	BotName string
	BotNick string
	Channel string
	// Topic is the desired channel topic; empty leaves the topic alone.
	Topic     string
	IconEmoji string
	IconURL   string

	// CycleFloor is the minimum time between cycle starts (default 5s).
	CycleFloor time.Duration
	// ReconnectDelay is the wait before reconnecting (default 5s).
	ReconnectDelay time.Duration
	// PostRate caps outbound posts per second; zero disables the cap.
	PostRate float64
	// Location is the time zone timed-task windows are evaluated in.
	Location *time.Location
}

// Daemon is the single-goroutine event loop. Registry and scheduler state
// are only touched from Run, so nothing here is locked.
type Daemon struct {
	settings Settings
	gw       gateway.Gateway
	reg      *registry.Registry
	parser   *command.Parser
	sched    *scheduler.Scheduler
	limiter  *rate.Limiter

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	state      State
	channelID  string
	cursor     string
	cycleStart time.Time
	fired      int
}

// New creates a Daemon. Handlers must be registered on reg before Run.
func New(settings Settings, gw gateway.Gateway, reg *registry.Registry) *Daemon {
	if settings.CycleFloor <= 0 {
		settings.CycleFloor = defaultCycleFloor
	}
	if settings.ReconnectDelay <= 0 {
		settings.ReconnectDelay = defaultReconnectDelay
	}
	d := &Daemon{
		settings: settings,
		gw:       gw,
		reg:      reg,
		parser:   command.NewParser(settings.BotNick),
		sched:    scheduler.New(settings.Location),
		now:      time.Now,
		sleep:    sleepWithContext,
	}
	if settings.PostRate > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(settings.PostRate), 1)
	}
	return d
}

// State returns the current loop state.
func (d *Daemon) State() State { return d.state }

// Cursor returns the timestamp of the last processed message.
func (d *Daemon) Cursor() string { return d.cursor }

// ChannelID returns the resolved channel id, or "" before connecting.
func (d *Daemon) ChannelID() string { return d.channelID }

// HandlersFired returns how many handler invocations dispatch has made.
func (d *Daemon) HandlersFired() int { return d.fired }

// Run connects and polls until ctx is cancelled or a fatal error occurs.
// Recoverable errors are logged, followed by a fixed delay and a fresh
// connection attempt with the cursor preserved.
func (d *Daemon) Run(ctx context.Context) error {
	if d.reg.Empty() {
		slog.Warn("daemon: no handlers registered, messages will be ignored")
	}
	for {
		d.setState(StateConnecting)
		err := d.connect(ctx)
		if err == nil {
			d.setState(StatePolling)
			err = d.poll(ctx)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if IsFatal(err) {
			d.setState(StateFatal)
			return err
		}

		d.setState(StateReconnecting)
		slog.Warn("daemon: recoverable error", "err", err, "retry_in", d.settings.ReconnectDelay)
		if err := d.sleep(ctx, d.settings.ReconnectDelay); err != nil {
			return err
		}
	}
}

func (d *Daemon) setState(s State) {
	if d.state != s {
		slog.Debug("daemon: state", "from", d.state, "to", s)
	}
	d.state = s
}

// connect authenticates, resolves the channel, reconciles the topic and,
// on first connection only, picks the starting cursor.
func (d *Daemon) connect(ctx context.Context) error {
	if err := d.gw.Authenticate(ctx); err != nil {
		return classifyConnect(err)
	}

	channels, err := d.gw.ListChannels(ctx)
	if err != nil {
		return classifyConnect(err)
	}
	name := strings.TrimPrefix(d.settings.Channel, "#")
	id, ok := channels[name]
	if !ok {
		return fatal(fmt.Errorf("channel %q not found", name))
	}
	d.channelID = id
	slog.Info("daemon: connected",
		"channel", name,
		"channel_id", id,
		"nick", d.parser.Nick(),
		"timezone", d.sched.Location().String(),
	)

	if d.settings.Topic != "" {
		if err := d.SetTopic(ctx, d.settings.Topic); err != nil {
			if errors.Is(err, gateway.ErrAuth) {
				return fatal(err)
			}
			slog.Warn("daemon: could not set topic", "err", err)
		}
	}

	if d.cursor == "" {
		cursor, err := d.initialCursor(ctx)
		if err != nil {
			return classifyConnect(err)
		}
		d.cursor = cursor
		slog.Info("daemon: starting cursor", "ts", cursor)
	}

	d.cycleStart = d.now()
	return nil
}

func classifyConnect(err error) error {
	if errors.Is(err, gateway.ErrAuth) {
		return fatal(err)
	}
	return recoverable(err)
}

// initialCursor is the newest existing message, or now when the channel
// has no history.
func (d *Daemon) initialCursor(ctx context.Context) (string, error) {
	msgs, err := d.gw.FetchHistory(ctx, d.channelID, "", 1)
	if err != nil {
		return "", fmt.Errorf("fetch latest message: %w", err)
	}
	latest := ""
	for _, m := range msgs {
		if latest == "" || gateway.CompareTS(m.TS, latest) > 0 {
			latest = m.TS
		}
	}
	if latest == "" {
		latest = gateway.FormatTS(d.now())
	}
	return latest, nil
}

func (d *Daemon) poll(ctx context.Context) error {
	for {
		if err := d.cycle(ctx); err != nil {
			return err
		}
	}
}

// cycle is one poll iteration: wait out the cadence floor, fetch, dispatch,
// then evaluate timed tasks.
func (d *Daemon) cycle(ctx context.Context) error {
	if elapsed := d.now().Sub(d.cycleStart); elapsed < d.settings.CycleFloor {
		if err := d.sleep(ctx, d.settings.CycleFloor-elapsed); err != nil {
			return err
		}
	}
	d.cycleStart = d.now()

	msgs, err := d.fetchNew(ctx)
	if err != nil {
		return recoverable(fmt.Errorf("fetch history: %w", err))
	}
	fired := 0
	for _, m := range msgs {
		// Advance first so a failing handler never causes redelivery.
		d.cursor = m.TS
		fired += d.dispatch(ctx, m)
	}
	d.fired += fired

	ran := d.sched.Evaluate(ctx, d.now(), d.reg.Tasks())
	if len(msgs) > 0 || ran > 0 {
		slog.Debug("daemon: cycle", "messages", len(msgs), "handlers", fired, "tasks", ran)
	}
	return nil
}

// fetchNew returns messages strictly newer than the cursor, oldest first.
func (d *Daemon) fetchNew(ctx context.Context) ([]gateway.Message, error) {
	since := d.cursor
	msgs, err := d.gw.FetchHistory(ctx, d.channelID, since, 0)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(msgs, func(a, b gateway.Message) int {
		return gateway.CompareTS(a.TS, b.TS)
	})
	return slices.DeleteFunc(msgs, func(m gateway.Message) bool {
		return gateway.CompareTS(m.TS, since) <= 0
	}), nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
