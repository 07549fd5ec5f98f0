package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slackard.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const fullConfig = `
slackard:
  apikey: xoxb-123
  channel: random
  botname: Slackard
  botnick: slack
  boticon: http://i.imgur.com/IwtcgFm.png
  topic: Hello
  plugins: [echo, links]
  timezone: UTC
  announcements:
    - name: standup
      message: Stand-up time
      interval: 24h
      start: 9
      end: 9
      days: MON-FRI
  links:
    max_urls: 5
    timeout: 3s
logging:
  level: debug
  format: json
`

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Slackard
	if s.APIKey != "xoxb-123" || s.Channel != "random" || s.BotNick != "slack" {
		t.Errorf("unexpected settings: %+v", s)
	}
	if !reflect.DeepEqual([]string(s.Plugins), []string{"echo", "links"}) {
		t.Errorf("plugins = %v", s.Plugins)
	}
	if len(s.Announcements) != 1 {
		t.Fatalf("expected 1 announcement, got %d", len(s.Announcements))
	}
	a := s.Announcements[0]
	if a.Interval != 24*time.Hour || a.Start != 9 || a.EndHour() != 9 || a.Days != "MON-FRI" {
		t.Errorf("unexpected announcement: %+v", a)
	}
	if s.Links.MaxURLs != 5 || s.Links.Timeout != 3*time.Second {
		t.Errorf("unexpected links config: %+v", s.Links)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_PartialConfigUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "slackard:\n  apikey: k\n  channel: general\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Slackard.BotName != def.Slackard.BotName || cfg.Slackard.BotNick != def.Slackard.BotNick {
		t.Errorf("expected default identity, got %q/%q", cfg.Slackard.BotName, cfg.Slackard.BotNick)
	}
	if cfg.Slackard.PostRate != 1 {
		t.Errorf("expected default post rate, got %v", cfg.Slackard.PostRate)
	}
	if cfg.Slackard.Links.Timeout != 10*time.Second {
		t.Errorf("expected default links timeout, got %v", cfg.Slackard.Links.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "slackard: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_PluginDirectoryRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "slackard:\n  plugins: ./myplugins\n"))
	if err == nil || !strings.Contains(err.Error(), "list of plugin names") {
		t.Fatalf("expected plugin list error, got %v", err)
	}
}

func TestLoad_APIKeyFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "xoxb-env")
	cfg, err := Load(writeConfig(t, "slackard:\n  channel: general\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Slackard.APIKey != "xoxb-env" {
		t.Errorf("apikey = %q", cfg.Slackard.APIKey)
	}

	cfg, err = Load(writeConfig(t, "slackard:\n  apikey: from-file\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Slackard.APIKey != "from-file" {
		t.Errorf("file value must win over env, got %q", cfg.Slackard.APIKey)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Example()
		return cfg
	}
	bad := 30
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing apikey", func(c *Config) { c.Slackard.APIKey = "" }, "apikey is required"},
		{"missing channel", func(c *Config) { c.Slackard.Channel = "" }, "channel is required"},
		{"icon and emoji", func(c *Config) { c.Slackard.BotIcon = "http://x/y.png" }, "mutually exclusive"},
		{"bad timezone", func(c *Config) { c.Slackard.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad days", func(c *Config) { c.Slackard.Announcements[0].Days = "someday" }, "announcements[0]"},
		{"bad end hour", func(c *Config) { c.Slackard.Announcements[0].End = &bad }, "hours must be within"},
		{"zero interval", func(c *Config) { c.Slackard.Announcements[0].Interval = 0 }, "interval must be positive"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, c := range cases {
		cfg := valid()
		c.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: expected error containing %q, got %v", c.name, c.want, err)
		}
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config should validate: %v", err)
	}
}

func TestIconEmoji(t *testing.T) {
	for in, want := range map[string]string{"boom": ":boom:", ":boom:": ":boom:", "": ""} {
		s := Settings{BotEmoji: in}
		if got := s.IconEmoji(); got != want {
			t.Errorf("IconEmoji(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "slackard.yaml")
	original := Example()
	if err := Save(&original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Slackard.Channel != original.Slackard.Channel {
		t.Errorf("channel mismatch: %q", loaded.Slackard.Channel)
	}
	if got := loaded.Slackard.Announcements[0]; got.Interval != 24*time.Hour || got.EndHour() != 9 {
		t.Errorf("announcement mismatch: %+v", got)
	}
}
