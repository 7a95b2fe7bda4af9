package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iliyamo/om-adella-promo/internal/countdown"
	"github.com/iliyamo/om-adella-promo/internal/show"
)

func TestModelTicksUntilElapsed(t *testing.T) {
	s := show.Current()
	now := s.StartsAt.Add(-2 * time.Second)
	m := newModel(s, show.Page(), countdown.New(s.StartsAt, func() time.Time { return now }))

	if m.Init() == nil {
		t.Fatal("Init() should schedule a tick before the show starts")
	}
	if !strings.Contains(m.View(), "02") || !strings.Contains(m.View(), "Detik") {
		t.Fatalf("View() before start:\n%s", m.View())
	}

	now = s.StartsAt
	next, cmd := m.Update(tickMsg(now))
	if cmd != nil {
		t.Fatal("no further tick expected once elapsed")
	}
	if view := next.View(); !strings.Contains(view, elapsedMessage) {
		t.Fatalf("View() after start:\n%s", view)
	}

	now = s.StartsAt.Add(-time.Hour)
	next, _ = next.Update(tickMsg(now))
	if !strings.Contains(next.View(), elapsedMessage) {
		t.Fatal("countdown must stay elapsed after the clock steps back")
	}
}

func TestModelQuits(t *testing.T) {
	s := show.Current()
	m := newModel(s, show.Page(), countdown.New(s.StartsAt, nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}
