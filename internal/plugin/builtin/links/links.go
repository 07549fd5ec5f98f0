// Package links announces the title of web pages linked in the channel.
package links

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/plugin"
	"github.com/slackard/slackard/internal/registry"
	"github.com/slackard/slackard/internal/shared/stringutils"
)

const (
	maxBodyBytes = 2 << 20
	maxRedirects = 5
	maxTitle     = 200
	userAgent    = "Mozilla/5.0 (compatible; slackard)"
)

// urlPattern matches bare URLs and Slack's "<url|label>" link markup.
var urlPattern = regexp.MustCompile(`https?://[^\s<>|]+`)

// Plugin is the links plugin.
type Plugin struct {
	maxURLs int
	client  *http.Client
}

// New creates the plugin. Zero values fall back to 3 URLs and a 10s timeout.
func New(cfg config.LinksConfig) *Plugin {
	if cfg.MaxURLs <= 0 {
		cfg.MaxURLs = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Plugin{
		maxURLs: cfg.MaxURLs,
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

func (p *Plugin) Name() string { return "links" }

func (p *Plugin) Register(reg *registry.Registry, bot plugin.Bot) error {
	if !plugin.Subscribe(reg, p.Name(), `https?://`, func(ctx context.Context, text string) error {
		return p.announce(ctx, bot, text)
	}) {
		return fmt.Errorf("links: subscription rejected")
	}
	return nil
}

// ExtractURLs returns up to limit distinct URLs found in text, in order.
func ExtractURLs(text string, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?)")
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (p *Plugin) announce(ctx context.Context, bot plugin.Bot, text string) error {
	urls := ExtractURLs(text, p.maxURLs)
	titles := make([]string, len(urls))

	var g errgroup.Group
	g.SetLimit(p.maxURLs)
	for i, u := range urls {
		g.Go(func() error {
			// Fetches run off the dispatch goroutine, so its recover cannot
			// reach them.
			defer func() {
				if r := recover(); r != nil {
					slog.Error("links: fetch panicked", "url", u, "panic", r)
				}
			}()
			title, err := p.fetchTitle(ctx, u)
			if err != nil {
				slog.Debug("links: fetch failed", "url", u, "err", err)
				return nil
			}
			titles[i] = title
			return nil
		})
	}
	_ = g.Wait()

	for i, u := range urls {
		if titles[i] == "" {
			continue
		}
		if err := bot.Speak(ctx, fmt.Sprintf("%s - %s", titles[i], u)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plugin) fetchTitle(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", fmt.Errorf("not html: %s", ct)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", err
	}
	return stringutils.Truncate(strings.Join(strings.Fields(article.Title), " "), maxTitle), nil
}
