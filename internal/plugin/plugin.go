// Package plugin loads compiled-in plugins onto the dispatch registry.
//
// Plugins are selected by name in the configuration and register their
// subscriptions, commands, firehose handlers and timed tasks once, before
// the daemon starts polling.
package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/registry"
)

// Bot is what plugins use to talk back to the channel.
type Bot interface {
	Name() string
	Speak(ctx context.Context, text string) error
	Paste(ctx context.Context, text string) error
	Upload(ctx context.Context, content []byte, filename, title string) error
	SetTopic(ctx context.Context, topic string) error
}

// Plugin registers handlers on a Registry.
type Plugin interface {
	Name() string
	Register(reg *registry.Registry, bot Bot) error
}

// Factory builds a plugin from the loaded configuration.
type Factory func(cfg *config.Config) Plugin

// Host is the catalog of available plugins.
type Host struct {
	cfg     *config.Config
	catalog map[string]Factory
}

// NewHost creates an empty Host.
func NewHost(cfg *config.Config) *Host {
	return &Host{cfg: cfg, catalog: make(map[string]Factory)}
}

// Add makes a plugin available under name.
func (h *Host) Add(name string, f Factory) *Host {
	h.catalog[name] = f
	return h
}

// Available returns the catalog's plugin names, sorted.
func (h *Host) Available() []string {
	names := make([]string, 0, len(h.catalog))
	for n := range h.catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load registers the named plugins in order. Unknown names fail the whole
// load; a plugin whose Register fails is logged and skipped.
func (h *Host) Load(names []string, reg *registry.Registry, bot Bot) ([]string, error) {
	for _, name := range names {
		if _, ok := h.catalog[name]; !ok {
			return nil, fmt.Errorf("unknown plugin %q (available: %v)", name, h.Available())
		}
	}

	var loaded []string
	for _, name := range names {
		p := h.catalog[name](h.cfg)
		slog.Debug("plugin: registering", "plugin", name)
		if err := p.Register(reg, bot); err != nil {
			slog.Error("plugin: register failed, skipping", "plugin", name, "err", err)
			continue
		}
		loaded = append(loaded, name)
	}
	slog.Info("plugin: loaded", "plugins", loaded)
	return loaded, nil
}

// Subscribe registers a subscription and logs, rather than returns, an
// invalid pattern so one bad pattern does not abort startup.
func Subscribe(reg *registry.Registry, plugin, pattern string, h registry.TextHandler) bool {
	if err := reg.AddSubscription(pattern, h); err != nil {
		slog.Error("plugin: dropping subscription", "plugin", plugin, "err", err)
		return false
	}
	return true
}
