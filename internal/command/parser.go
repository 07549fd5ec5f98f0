// Package command extracts bot commands from messages addressed to the
// bot's nickname, e.g. "@slack: greet Bob".
package command

import (
	"regexp"
	"strings"
)

// Command is a parsed command invocation.
type Command struct {
	Name string
	Args string
}

// Parser matches messages addressed to one nickname.
type Parser struct {
	nick string
	re   *regexp.Regexp
}

// NewParser builds a case-insensitive parser for nick. The nickname must be
// followed by colons or whitespace, so "slackbot hi" is not addressed to
// "slack".
func NewParser(nick string) *Parser {
	pattern := `(?i)^@?` + regexp.QuoteMeta(nick) + `(?::+\s*|\s+)(\S+)[ \t]*(.*)`
	return &Parser{nick: nick, re: regexp.MustCompile(pattern)}
}

// Nick returns the nickname the parser matches.
func (p *Parser) Nick() string { return p.nick }

// Parse returns the command in text, if text is addressed to the bot.
// Args is the remainder of the first line, trimmed.
func (p *Parser) Parse(text string) (Command, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return Command{}, false
	}
	return Command{Name: m[1], Args: strings.TrimSpace(m[2])}, true
}
