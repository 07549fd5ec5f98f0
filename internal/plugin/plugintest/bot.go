// Package plugintest provides a recording plugin.Bot for tests.
package plugintest

import (
	"context"
	"sync"
)

// Upload is one recorded Upload call.
type Upload struct {
	Content  []byte
	Filename string
	Title    string
}

// Bot records everything plugins send. It is safe for concurrent use.
type Bot struct {
	BotName string
	// Err, when set, is returned by every call.
	Err error

	mu      sync.Mutex
	said    []string
	pasted  []string
	topics  []string
	uploads []Upload
}

func (b *Bot) Name() string { return b.BotName }

func (b *Bot) Speak(_ context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.said = append(b.said, text)
	return b.Err
}

func (b *Bot) Paste(_ context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pasted = append(b.pasted, text)
	return b.Err
}

func (b *Bot) Upload(_ context.Context, content []byte, filename, title string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, Upload{Content: content, Filename: filename, Title: title})
	return b.Err
}

func (b *Bot) SetTopic(_ context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	return b.Err
}

// Said returns the spoken messages in order.
func (b *Bot) Said() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.said...)
}

// Pasted returns the pasted messages in order.
func (b *Bot) Pasted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.pasted...)
}

// Topics returns the topics set in order.
func (b *Bot) Topics() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.topics...)
}

// Uploads returns the recorded uploads in order.
func (b *Bot) Uploads() []Upload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Upload(nil), b.uploads...)
}
