package announce

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/plugin/plugintest"
	"github.com/slackard/slackard/internal/registry"
	"github.com/slackard/slackard/internal/scheduler"
)

func TestAnnounce_RegistersTasks(t *testing.T) {
	nine := 9
	p := New([]config.Announcement{
		{Name: "standup", Message: "Standup time!", Interval: 24 * time.Hour, Start: 9, End: &nine, Days: "MON-FRI"},
		{Message: "Drink water", Interval: time.Hour},
	})
	reg := registry.New()
	bot := &plugintest.Bot{}
	if err := p.Register(reg, bot); err != nil {
		t.Fatalf("register: %v", err)
	}

	tasks := reg.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	standup := tasks[0]
	if standup.Name != "standup" || standup.Start != 9 || standup.End != 9 || standup.Days != scheduler.Weekdays {
		t.Errorf("unexpected standup task: %+v", standup)
	}
	water := tasks[1]
	if water.Name != "announce-2" || water.End != 24 || water.Days != scheduler.AllDays {
		t.Errorf("unexpected default task: %+v", water)
	}

	// Monday 2024-01-01 09:15 UTC.
	now := time.Date(2024, time.January, 1, 9, 15, 0, 0, time.UTC)
	scheduler.New(time.UTC).Evaluate(context.Background(), now, tasks)
	want := []string{"Standup time!", "Drink water"}
	if got := bot.Said(); !reflect.DeepEqual(got, want) {
		t.Errorf("said = %v, want %v", got, want)
	}
}

func TestAnnounce_RejectsBadEntries(t *testing.T) {
	cases := []config.Announcement{
		{Message: "x", Interval: 0},
		{Message: "x", Interval: time.Hour, Days: "funday"},
	}
	for _, a := range cases {
		reg := registry.New()
		if err := New([]config.Announcement{a}).Register(reg, &plugintest.Bot{}); err == nil {
			t.Errorf("expected error for %+v", a)
		}
		if len(reg.Tasks()) != 0 {
			t.Errorf("no tasks should be registered on error")
		}
	}
}
