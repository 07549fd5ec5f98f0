package plugin

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/plugin/plugintest"
	"github.com/slackard/slackard/internal/registry"
)

type stub struct {
	name string
	err  error
}

func (s stub) Name() string { return s.name }

func (s stub) Register(reg *registry.Registry, _ Bot) error {
	if s.err != nil {
		return s.err
	}
	reg.AddCommand(s.name, func(context.Context, string) error { return nil })
	return nil
}

func factory(name string, err error) Factory {
	return func(*config.Config) Plugin { return stub{name: name, err: err} }
}

func TestHost_LoadInOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	h := NewHost(&cfg).Add("b", factory("b", nil)).Add("a", factory("a", nil))
	reg := registry.New()

	loaded, err := h.Load([]string{"b", "a"}, reg, &plugintest.Bot{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, []string{"b", "a"}) {
		t.Errorf("loaded = %v", loaded)
	}
	if cmds := reg.Commands(); len(cmds) != 2 || cmds[0].Name != "b" {
		t.Errorf("commands not registered in load order: %+v", cmds)
	}
	if got := h.Available(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Available() = %v", got)
	}
}

func TestHost_UnknownPluginFailsBeforeRegistering(t *testing.T) {
	cfg := config.DefaultConfig()
	h := NewHost(&cfg).Add("a", factory("a", nil))
	reg := registry.New()

	if _, err := h.Load([]string{"a", "missing"}, reg, &plugintest.Bot{}); err == nil {
		t.Fatal("expected error for unknown plugin")
	}
	if !reg.Empty() {
		t.Error("nothing should be registered when a name is unknown")
	}
}

func TestHost_FailingRegisterIsSkipped(t *testing.T) {
	cfg := config.DefaultConfig()
	h := NewHost(&cfg).
		Add("bad", factory("bad", errors.New("boom"))).
		Add("good", factory("good", nil))
	reg := registry.New()

	loaded, err := h.Load([]string{"bad", "good"}, reg, &plugintest.Bot{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, []string{"good"}) {
		t.Errorf("loaded = %v", loaded)
	}
}

func TestSubscribe_InvalidPatternDropped(t *testing.T) {
	reg := registry.New()
	noop := func(context.Context, string) error { return nil }
	if Subscribe(reg, "p", "([", noop) {
		t.Error("invalid pattern should be rejected")
	}
	if !Subscribe(reg, "p", "hello", noop) {
		t.Error("valid pattern should be accepted")
	}
	if len(reg.Subscriptions()) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(reg.Subscriptions()))
	}
}
