// Package config defines the slackard configuration file.
//
// The file is YAML. Bot settings live under the top-level "slackard" key
// so configs written for earlier releases keep working:
//
//	slackard:
//	  apikey: xoxb-...
//	  channel: random
//	  botname: Slackard
//	  botnick: slack
//	  plugins: [echo, greet, help]
package config

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PluginList is the ordered list of built-in plugins to enable.
type PluginList []string

// UnmarshalYAML rejects the old directory form ("plugins: ./myplugins")
// with an explicit message instead of a type error.
func (p *PluginList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return fmt.Errorf("plugins: expected a list of plugin names, got %q", value.Value)
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*p = names
	return nil
}

// Announcement is a message the announce plugin posts on a schedule.
type Announcement struct {
	Name     string        `yaml:"name,omitempty"`
	Message  string        `yaml:"message"`
	Interval time.Duration `yaml:"interval"`
	Start    int           `yaml:"start"`
	// End defaults to 24 (no upper bound) when omitted.
	End  *int   `yaml:"end,omitempty"`
	Days string `yaml:"days,omitempty"` // cron day-of-week field, e.g. MON-FRI
}

// EndHour returns End, or 24 when unset.
func (a Announcement) EndHour() int {
	if a.End == nil {
		return 24
	}
	return *a.End
}

// LinksConfig configures the links plugin.
type LinksConfig struct {
	MaxURLs int           `yaml:"max_urls"`
	Timeout time.Duration `yaml:"timeout"`
}

// Settings is the "slackard" block: credentials, identity and plugins.
type Settings struct {
	APIKey   string     `yaml:"apikey"`
	Channel  string     `yaml:"channel"`
	BotName  string     `yaml:"botname"`
	BotNick  string     `yaml:"botnick"`
	BotIcon  string     `yaml:"boticon,omitempty"`
	BotEmoji string     `yaml:"botemoji,omitempty"`
	Topic    string     `yaml:"topic,omitempty"`
	Plugins  PluginList `yaml:"plugins"`

	Timezone      string         `yaml:"timezone,omitempty"`
	PostRate      float64        `yaml:"post_rate"`
	APIURL        string         `yaml:"api_url,omitempty"`
	Announcements []Announcement `yaml:"announcements,omitempty"`
	Links         LinksConfig    `yaml:"links"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Config is the root configuration object.
type Config struct {
	Slackard Settings      `yaml:"slackard"`
	Logging  LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns a Config populated with default values. It has no
// credentials or channel and does not validate on its own.
func DefaultConfig() Config {
	return Config{
		Slackard: Settings{
			BotName:  "Slackard",
			BotNick:  "slack",
			Plugins:  PluginList{"echo", "greet", "help"},
			PostRate: 1,
			Links: LinksConfig{
				MaxURLs: 3,
				Timeout: 10 * time.Second,
			},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// IconEmoji returns the configured emoji in ":name:" form, or "".
func (s Settings) IconEmoji() string {
	e := strings.Trim(strings.TrimSpace(s.BotEmoji), ":")
	if e == "" {
		return ""
	}
	return ":" + e + ":"
}

// Location returns the time zone for timed-task windows (local by default).
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
