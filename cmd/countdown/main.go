// Command countdown shows the time left until the show in the terminal.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iliyamo/om-adella-promo/internal/countdown"
	"github.com/iliyamo/om-adella-promo/internal/show"
)

func main() {
	s := show.Current()
	m := newModel(s, show.Page(), countdown.New(s.StartsAt, nil))

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "countdown: %v\n", err)
		os.Exit(1)
	}
}
