// Package tui is the terminal front end of the movie list.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moviehub/browse"
	"moviehub/movie"
)

const (
	cardWidth   = 28
	defaultCols = 3
)

// Browser is the subset of *browse.Controller the model drives.
type Browser interface {
	Start()
	Next()
	Previous()
	SetGenre(genre string)
	SetYear(year int)
	Snapshot() browse.Snapshot
}

// SnapshotMsg carries a controller transition into the program loop.
type SnapshotMsg browse.Snapshot

type Model struct {
	browser Browser
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	snap  browse.Snapshot
	width int
}

func New(b Browser) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return Model{
		browser: b,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		snap:    b.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	m.browser.Start()
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		if supersedes(browse.Snapshot(msg), m.snap) {
			m.snap = browse.Snapshot(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Genre):
		i, _ := strconv.Atoi(msg.String())
		if i >= 1 && i <= len(movie.Genres) {
			m.browser.SetGenre(movie.Genres[i-1])
		}

	case key.Matches(msg, m.keys.Year):
		m.browser.SetYear(nextYear(m.snap.Query.Year))

	case key.Matches(msg, m.keys.ClearYear):
		m.browser.SetYear(0)

	case key.Matches(msg, m.keys.Previous):
		m.browser.Previous()

	case key.Matches(msg, m.keys.Next):
		if !m.snap.HasMore {
			return m, nil
		}
		m.browser.Next()

	default:
		return m, nil
	}

	if s := m.browser.Snapshot(); supersedes(s, m.snap) {
		m.snap = s
	}
	return m, nil
}

// supersedes reports whether next is at least as recent as cur. A Loading
// snapshot never replaces the resolution of the same fetch.
func supersedes(next, cur browse.Snapshot) bool {
	if next.Seq != cur.Seq {
		return next.Seq > cur.Seq
	}
	return next.Lifecycle.Status != browse.Loading || cur.Lifecycle.Status == browse.Loading
}

// nextYear cycles through movie.Years, starting over after the oldest.
func nextYear(current int) int {
	for i, y := range movie.Years {
		if y == current && i+1 < len(movie.Years) {
			return movie.Years[i+1]
		}
	}
	return movie.Years[0]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(m.header()))
	b.WriteString("\n")
	b.WriteString(m.filters())
	b.WriteString("\n\n")

	lc := m.snap.Lifecycle
	if lc.Status == browse.Failed {
		b.WriteString(ErrorStyle.Render(lc.Err))
		b.WriteString("\n\n")
	}

	switch lc.Status {
	case browse.Loading:
		b.WriteString(m.spinner.View() + " Loading...")
	case browse.Success:
		cards := movie.Visible(lc.Results)
		if len(cards) == 0 {
			b.WriteString(DimStyle.Render("No movies found."))
		} else {
			b.WriteString(m.grid(cards))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(m.pager())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	q := m.snap.Query
	year := ""
	if q.Year != 0 {
		year = strconv.Itoa(q.Year) + " "
	}
	return fmt.Sprintf("%s%s Movie List", year, q.Genre)
}

func (m Model) filters() string {
	q := m.snap.Query
	buttons := make([]string, 0, len(movie.Genres)+1)
	for i, g := range movie.Genres {
		label := fmt.Sprintf("%d %s", i+1, g)
		if g == q.Genre {
			buttons = append(buttons, ActiveButtonStyle.Render(label))
		} else {
			buttons = append(buttons, ButtonStyle.Render(label))
		}
	}

	year := "any year"
	if q.Year != 0 {
		year = strconv.Itoa(q.Year)
	}
	buttons = append(buttons, DimStyle.Render("  year: "+year))
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m Model) pager() string {
	prev := ButtonStyle.Render("Previous")
	if m.snap.Query.Page <= 1 {
		prev = DisabledButtonStyle.Render("Previous")
	}
	next := ButtonStyle.Render("Next")
	if !m.snap.HasMore {
		next = DisabledButtonStyle.Render("Next")
	}
	page := DimStyle.Render(fmt.Sprintf(" page %d ", m.snap.Query.Page))
	return lipgloss.JoinHorizontal(lipgloss.Top, prev, page, next)
}

func (m Model) grid(cards []movie.Summary) string {
	cols := defaultCols
	if m.width > 0 {
		cols = max(1, m.width/(cardWidth+4))
	}

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		row := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			row = append(row, renderCard(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(s movie.Summary) string {
	body := CardTitleStyle.Render(s.Title) + "\n" +
		DimStyle.Render(strconv.Itoa(s.ReleaseYear)) + "\n" +
		DimStyle.Render(s.PosterURL)
	return CardStyle.Render(body)
}
