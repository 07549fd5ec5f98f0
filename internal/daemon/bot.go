package daemon

import (
	"context"
	"fmt"
	"strings"

	"github.com/slackard/slackard/internal/gateway"
)

// Name returns the bot's display name.
func (d *Daemon) Name() string { return d.settings.BotName }

// Speak posts text to the channel as the bot.
func (d *Daemon) Speak(ctx context.Context, text string) error {
	if d.channelID == "" {
		return ErrNotConnected
	}
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return d.gw.PostMessage(ctx, d.channelID, text, gateway.PostOptions{
		Username:  d.settings.BotName,
		IconEmoji: d.settings.IconEmoji,
		IconURL:   d.settings.IconURL,
	})
}

// Paste posts text as a preformatted block.
func (d *Daemon) Paste(ctx context.Context, text string) error {
	return d.Speak(ctx, "```"+text+"```")
}

// Upload shares a file in the channel. The title is suffixed with the
// bot's name.
func (d *Daemon) Upload(ctx context.Context, content []byte, filename, title string) error {
	if d.channelID == "" {
		return ErrNotConnected
	}
	title = strings.TrimSpace(fmt.Sprintf("%s (Upload by %s)", title, d.settings.BotName))
	return d.gw.UploadFile(ctx, d.channelID, content, filename, title)
}

// SetTopic changes the channel topic, skipping the write when the topic
// already matches.
func (d *Daemon) SetTopic(ctx context.Context, topic string) error {
	if d.channelID == "" {
		return ErrNotConnected
	}
	current, err := d.gw.FetchTopic(ctx, d.channelID)
	if err != nil {
		return fmt.Errorf("fetch topic: %w", err)
	}
	if current == topic {
		return nil
	}
	if err := d.gw.SetTopic(ctx, d.channelID, topic); err != nil {
		return fmt.Errorf("set topic: %w", err)
	}
	return nil
}
