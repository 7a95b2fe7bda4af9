package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iliyamo/om-adella-promo/internal/countdown"
	"github.com/iliyamo/om-adella-promo/internal/model"
)

const elapsedMessage = "Event telah berlangsung — terima kasih sudah hadir!"

type tickMsg time.Time

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5C542"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 2).
			Align(lipgloss.Center)
	unitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(8).
			Align(lipgloss.Center)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)

type countdownModel struct {
	show      model.Show
	page      model.Page
	cd        *countdown.Countdown
	remaining countdown.Remaining
}

func newModel(s model.Show, p model.Page, cd *countdown.Countdown) countdownModel {
	return countdownModel{show: s, page: p, cd: cd, remaining: cd.Next()}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m countdownModel) Init() tea.Cmd {
	if m.remaining.Elapsed {
		return nil
	}
	return tick()
}

func (m countdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		m.remaining = m.cd.Next()
		if m.remaining.Elapsed {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m countdownModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", m.page.Act, m.show.Title)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s\n%s\n\n", m.page.DateLabel, m.show.Address))

	if m.remaining.Elapsed {
		b.WriteString(elapsedMessage)
	} else {
		units := []struct {
			value int
			label string
		}{
			{m.remaining.Days, "Hari"},
			{m.remaining.Hours, "Jam"},
			{m.remaining.Minutes, "Menit"},
			{m.remaining.Seconds, "Detik"},
		}
		cols := make([]string, 0, len(units))
		for _, u := range units {
			cols = append(cols, lipgloss.JoinVertical(lipgloss.Center,
				boxStyle.Render(fmt.Sprintf("%02d", u.value)),
				unitStyle.Render(u.label),
			))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}

	b.WriteString(footerStyle.Render("q: keluar"))
	b.WriteString("\n")
	return b.String()
}
