// Package dependency wires the slackard services using go.uber.org/dig.
package dependency

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/daemon"
	"github.com/slackard/slackard/internal/gateway"
	"github.com/slackard/slackard/internal/plugin"
	"github.com/slackard/slackard/internal/plugin/builtin"
	"github.com/slackard/slackard/internal/registry"
)

// Container holds the resolved service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	daemon  *daemon.Daemon
	reg     *registry.Registry
	gw      gateway.Gateway
	plugins LoadedPlugins
}

func (c *Container) Daemon() *daemon.Daemon       { return c.daemon }
func (c *Container) Registry() *registry.Registry { return c.reg }
func (c *Container) Gateway() gateway.Gateway     { return c.gw }
func (c *Container) Plugins() []string            { return c.plugins }

// LoadedPlugins is the names of the plugins that registered successfully.
// It is a named type so dig can tell it apart from other string slices.
type LoadedPlugins []string

// Option customises the container.
type Option func(*options)

type options struct {
	gw gateway.Gateway
}

// WithGateway replaces the Slack gateway, typically with a fake in tests.
func WithGateway(gw gateway.Gateway) Option {
	return func(o *options) { o.gw = gw }
}

// New builds and wires all services from cfg. Plugins are registered
// before New returns; nothing talks to Slack until Daemon().Run.
func New(cfg *config.Config, opts ...Option) (*Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if o.gw != nil {
		if err := d.Provide(func() gateway.Gateway { return o.gw }); err != nil {
			return nil, err
		}
	} else if err := d.Provide(newGateway); err != nil {
		return nil, err
	}
	if err := d.Provide(registry.New); err != nil {
		return nil, err
	}
	if err := d.Provide(newDaemon); err != nil {
		return nil, err
	}
	if err := d.Provide(builtin.Catalog); err != nil {
		return nil, err
	}
	if err := d.Provide(loadPlugins); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		dm *daemon.Daemon,
		reg *registry.Registry,
		gw gateway.Gateway,
		loaded LoadedPlugins,
	) {
		result = &Container{
			daemon:  dm,
			reg:     reg,
			gw:      gw,
			plugins: loaded,
		}
	})
	if err != nil {
		return nil, dig.RootCause(err)
	}
	return result, nil
}

func newGateway(cfg *config.Config) gateway.Gateway {
	return gateway.NewSlack(gateway.SlackConfig{
		Token:  cfg.Slackard.APIKey,
		APIURL: cfg.Slackard.APIURL,
	})
}

func newDaemon(cfg *config.Config, gw gateway.Gateway, reg *registry.Registry) (*daemon.Daemon, error) {
	s := cfg.Slackard
	loc, err := s.Location()
	if err != nil {
		return nil, err
	}
	return daemon.New(daemon.Settings{
		BotName:   s.BotName,
		BotNick:   s.BotNick,
		Channel:   s.Channel,
		Topic:     s.Topic,
		IconEmoji: s.IconEmoji(),
		IconURL:   s.BotIcon,
		PostRate:  s.PostRate,
		Location:  loc,
	}, gw, reg), nil
}

// loadPlugins registers the configured plugins with the daemon as their Bot.
func loadPlugins(cfg *config.Config, host *plugin.Host, reg *registry.Registry, dm *daemon.Daemon) (LoadedPlugins, error) {
	loaded, err := host.Load(cfg.Slackard.Plugins, reg, dm)
	if err != nil {
		return nil, fmt.Errorf("load plugins: %w", err)
	}
	return loaded, nil
}
