// Package tui renders the tabbed terminal UI over a simulation session.
// The UI is strictly read-only: it renders snapshots and never mutates the
// session except by re-requesting views after the console has.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zero-day-ai/heapsim/internal/session"
	"github.com/zero-day-ai/heapsim/internal/tui/styles"
)

// Tab identifies one of the fixed TUI tabs.
type Tab int

const (
	TabHeap Tab = iota
	TabBuckets
	TabBugs
	TabStrategy
	TabTimeline
	tabCount
)

// String returns the tab's display name.
func (t Tab) String() string {
	switch t {
	case TabHeap:
		return "Heap"
	case TabBuckets:
		return "Buckets"
	case TabBugs:
		return "Bugs"
	case TabStrategy:
		return "Strategy"
	case TabTimeline:
		return "Timeline"
	default:
		return "?"
	}
}

// Model is the bubbletea model for the heapsim TUI.
type Model struct {
	session *session.Session
	snap    session.Snapshot

	tab      Tab
	keys     KeyMap
	theme    *styles.Theme
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewModel creates the TUI model over a session.
func NewModel(s *session.Session) Model {
	return Model{
		session: s,
		snap:    s.Snapshot(),
		keys:    DefaultKeyMap(),
		theme:   styles.DefaultTheme(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 3
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.viewport.SetContent(m.content())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % tabCount
			m.refreshContent()
		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + tabCount - 1) % tabCount
			m.refreshContent()
		case key.Matches(msg, m.keys.Refresh):
			m.snap = m.session.Snapshot()
			m.refreshContent()
		case key.Matches(msg, m.keys.ViewHeap):
			m.tab = TabHeap
			m.refreshContent()
		case key.Matches(msg, m.keys.ViewBuckets):
			m.tab = TabBuckets
			m.refreshContent()
		case key.Matches(msg, m.keys.ViewBugs):
			m.tab = TabBugs
			m.refreshContent()
		case key.Matches(msg, m.keys.ViewStrategy):
			m.tab = TabStrategy
			m.refreshContent()
		case key.Matches(msg, m.keys.ViewTimeline):
			m.tab = TabTimeline
			m.refreshContent()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) refreshContent() {
	if m.ready {
		m.viewport.SetContent(m.content())
		m.viewport.GotoTop()
	}
}

func (m Model) content() string {
	switch m.tab {
	case TabHeap:
		return m.renderHeap()
	case TabBuckets:
		return m.renderBuckets()
	case TabBugs:
		return m.renderBugs()
	case TabStrategy:
		return m.renderStrategy()
	case TabTimeline:
		return m.renderTimeline()
	default:
		return ""
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	tabs := make([]string, 0, int(tabCount))
	for t := TabHeap; t < tabCount; t++ {
		style := m.theme.TabStyle
		if t == m.tab {
			style = m.theme.ActiveTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d:%s", int(t)+1, t)))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	title := m.theme.TitleStyle.Render("heapsim") +
		m.theme.StatusBarStyle.Render(fmt.Sprintf("  session %s", m.snap.SessionID))

	footer := m.theme.StatusBarStyle.Render("tab/shift+tab switch · r refresh · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, header, m.viewport.View(), footer)
}
