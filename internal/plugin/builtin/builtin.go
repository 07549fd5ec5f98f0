// Package builtin holds the plugins compiled into slackard.
package builtin

import (
	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/plugin"
	"github.com/slackard/slackard/internal/plugin/builtin/announce"
	"github.com/slackard/slackard/internal/plugin/builtin/links"
)

// Catalog returns a Host with every built-in plugin available.
func Catalog(cfg *config.Config) *plugin.Host {
	return plugin.NewHost(cfg).
		Add("echo", func(*config.Config) plugin.Plugin { return echo{} }).
		Add("greet", func(*config.Config) plugin.Plugin { return greet{} }).
		Add("help", func(c *config.Config) plugin.Plugin { return help{nick: c.Slackard.BotNick} }).
		Add("topic", func(*config.Config) plugin.Plugin { return topic{} }).
		Add("chatlog", func(*config.Config) plugin.Plugin { return &chatlog{} }).
		Add("links", func(c *config.Config) plugin.Plugin { return links.New(c.Slackard.Links) }).
		Add("announce", func(c *config.Config) plugin.Plugin { return announce.New(c.Slackard.Announcements) })
}
