// Package gateway defines the connection to the chat service the daemon
// polls, and provides the Slack implementation of it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrAuth is returned (wrapped) when the service rejects the credentials.
var ErrAuth = errors.New("authentication failed")

// Message is one channel message as returned by the history endpoint.
type Message struct {
	// TS is the Slack timestamp ("<seconds>.<micros>"). It orders messages
	// within a channel and doubles as the message id.
	TS       string
	Text     string
	SubType  string
	Username string
	User     string
}

// PostOptions controls how a posted message is presented.
// IconEmoji and IconURL are mutually exclusive.
type PostOptions struct {
	Username  string
	IconEmoji string
	IconURL   string
}

// Gateway is the capability set the daemon needs from the chat service.
type Gateway interface {
	// Authenticate verifies the credentials. Bad credentials yield ErrAuth.
	Authenticate(ctx context.Context) error
	// ListChannels maps channel names to ids.
	ListChannels(ctx context.Context) (map[string]string, error)
	FetchTopic(ctx context.Context, channelID string) (string, error)
	SetTopic(ctx context.Context, channelID, topic string) error
	// FetchHistory returns messages newer than since (empty = no lower
	// bound). A limit of zero fetches every page. Order is unspecified.
	FetchHistory(ctx context.Context, channelID, since string, limit int) ([]Message, error)
	PostMessage(ctx context.Context, channelID, text string, opts PostOptions) error
	UploadFile(ctx context.Context, channelID string, content []byte, filename, title string) error
}

// CompareTS orders two Slack timestamps numerically. It returns -1, 0 or 1.
// Malformed parts compare as zero.
func CompareTS(a, b string) int {
	as, au := splitTS(a)
	bs, bu := splitTS(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	case au < bu:
		return -1
	case au > bu:
		return 1
	}
	return 0
}

// FormatTS renders t as a Slack timestamp with microsecond precision.
func FormatTS(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/int(time.Microsecond))
}

func splitTS(ts string) (int64, int64) {
	secs, frac, _ := strings.Cut(strings.TrimSpace(ts), ".")
	s, _ := strconv.ParseInt(secs, 10, 64)
	if frac == "" {
		return s, 0
	}
	// Normalise the fraction to microseconds so "1.5" and "1.500000" agree.
	if len(frac) < 6 {
		frac += strings.Repeat("0", 6-len(frac))
	}
	u, _ := strconv.ParseInt(frac[:6], 10, 64)
	return s, u
}
