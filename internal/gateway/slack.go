package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	slackgo "github.com/slack-go/slack"
)

// authErrorCodes are the Slack error codes that retrying cannot fix.
var authErrorCodes = map[string]bool{
	"invalid_auth":     true,
	"not_authed":       true,
	"account_inactive": true,
	"token_revoked":    true,
	"token_expired":    true,
}

// SlackConfig configures the Slack gateway.
type SlackConfig struct {
	Token string
	// APIURL overrides the Slack Web API base URL (must end with "/").
	APIURL string
	// HTTPClient is used for all API calls, including file uploads.
	// Defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// Slack implements Gateway over the Slack Web API.
type Slack struct {
	api *slackgo.Client
}

// NewSlack creates a Slack gateway. No request is made until Authenticate.
func NewSlack(cfg SlackConfig) *Slack {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	opts := []slackgo.Option{slackgo.OptionHTTPClient(httpClient)}
	if cfg.APIURL != "" {
		u := cfg.APIURL
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		opts = append(opts, slackgo.OptionAPIURL(u))
	}
	return &Slack{api: slackgo.New(cfg.Token, opts...)}
}

func (s *Slack) Authenticate(ctx context.Context) error {
	resp, err := s.api.AuthTestContext(ctx)
	if err != nil {
		return classify("auth.test", err)
	}
	slog.Info("slack: authenticated", "team", resp.Team, "user", resp.User)
	return nil
}

func (s *Slack) ListChannels(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	params := &slackgo.GetConversationsParameters{
		ExcludeArchived: true,
		Limit:           200,
		Types:           []string{"public_channel", "private_channel"},
	}
	for {
		channels, next, err := s.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, classify("conversations.list", err)
		}
		for _, ch := range channels {
			out[ch.Name] = ch.ID
		}
		if next == "" {
			return out, nil
		}
		params.Cursor = next
	}
}

func (s *Slack) FetchTopic(ctx context.Context, channelID string) (string, error) {
	ch, err := s.api.GetConversationInfoContext(ctx, &slackgo.GetConversationInfoInput{ChannelID: channelID})
	if err != nil {
		return "", classify("conversations.info", err)
	}
	return ch.Topic.Value, nil
}

func (s *Slack) SetTopic(ctx context.Context, channelID, topic string) error {
	if _, err := s.api.SetTopicOfConversationContext(ctx, channelID, topic); err != nil {
		return classify("conversations.setTopic", err)
	}
	return nil
}

func (s *Slack) FetchHistory(ctx context.Context, channelID, since string, limit int) ([]Message, error) {
	params := &slackgo.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    since,
		Limit:     limit,
	}
	if limit <= 0 {
		params.Limit = 200
	}

	var out []Message
	for {
		resp, err := s.api.GetConversationHistoryContext(ctx, params)
		if err != nil {
			return nil, classify("conversations.history", err)
		}
		for _, m := range resp.Messages {
			out = append(out, Message{
				TS:       m.Timestamp,
				Text:     m.Text,
				SubType:  m.SubType,
				Username: m.Username,
				User:     m.User,
			})
		}
		if limit > 0 || !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			return out, nil
		}
		params.Cursor = resp.ResponseMetaData.NextCursor
	}
}

func (s *Slack) PostMessage(ctx context.Context, channelID, text string, opts PostOptions) error {
	options := []slackgo.MsgOption{slackgo.MsgOptionText(text, false)}
	if opts.Username != "" {
		options = append(options, slackgo.MsgOptionUsername(opts.Username))
	}
	switch {
	case opts.IconEmoji != "":
		options = append(options, slackgo.MsgOptionIconEmoji(opts.IconEmoji))
	case opts.IconURL != "":
		options = append(options, slackgo.MsgOptionIconURL(opts.IconURL))
	}
	if _, _, err := s.api.PostMessageContext(ctx, channelID, options...); err != nil {
		return classify("chat.postMessage", err)
	}
	return nil
}

// UploadFile uses Slack's external upload flow: reserve an upload URL,
// send the bytes there, then share the file into the channel.
func (s *Slack) UploadFile(ctx context.Context, channelID string, content []byte, filename, title string) error {
	if len(content) == 0 {
		return fmt.Errorf("upload %q: empty file", filename)
	}
	if filename == "" {
		filename = "upload"
	}
	_, err := s.api.UploadFileContext(ctx, slackgo.UploadFileParameters{
		Reader:   bytes.NewReader(content),
		FileSize: len(content),
		Filename: filename,
		Title:    title,
		Channel:  channelID,
	})
	if err != nil {
		return classify("files.upload", err)
	}
	return nil
}

// classify wraps err with the API method and marks credential failures
// with ErrAuth.
func classify(method string, err error) error {
	var serr slackgo.SlackErrorResponse
	if errors.As(err, &serr) && authErrorCodes[serr.Err] {
		return fmt.Errorf("slack %s: %w: %s", method, ErrAuth, serr.Err)
	}
	if authErrorCodes[err.Error()] {
		return fmt.Errorf("slack %s: %w: %s", method, ErrAuth, err.Error())
	}
	return fmt.Errorf("slack %s: %w", method, err)
}
