package config

import (
	"errors"
	"fmt"

	"github.com/slackard/slackard/internal/scheduler"
)

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	s := c.Slackard
	var errs []error
	required := []struct{ key, val string }{
		{"apikey", s.APIKey},
		{"channel", s.Channel},
		{"botname", s.BotName},
		{"botnick", s.BotNick},
	}
	for _, r := range required {
		if r.val == "" {
			errs = append(errs, fmt.Errorf("slackard.%s is required", r.key))
		}
	}
	if s.BotIcon != "" && s.BotEmoji != "" {
		errs = append(errs, errors.New("slackard.boticon and slackard.botemoji are mutually exclusive"))
	}
	if s.PostRate < 0 {
		errs = append(errs, errors.New("slackard.post_rate must not be negative"))
	}
	if _, err := s.Location(); err != nil {
		errs = append(errs, err)
	}
	for i, a := range s.Announcements {
		if err := a.validate(); err != nil {
			errs = append(errs, fmt.Errorf("slackard.announcements[%d]: %w", i, err))
		}
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want text or json", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func (a Announcement) validate() error {
	if a.Message == "" {
		return errors.New("message is required")
	}
	if a.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	end := a.EndHour()
	if a.Start < 0 || a.Start > 23 || end < 0 || end > 24 {
		return fmt.Errorf("hours must be within 0-24 (start %d, end %d)", a.Start, end)
	}
	if _, err := scheduler.ParseDays(a.Days); err != nil {
		return err
	}
	return nil
}
