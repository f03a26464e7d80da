package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/codeargus/argus/internal/core"
)

type viewState int

const (
	stateList viewState = iota
	stateViewing
)

// reportItem is one Markdown report file in the list.
type reportItem struct {
	name     string
	path     string
	modified time.Time
	size     int64
}

func (i reportItem) Title() string { return i.name }

func (i reportItem) Description() string {
	return fmt.Sprintf("%s · %s", i.modified.Format("2006-01-02 15:04"), formatBytes(i.size))
}

func (i reportItem) FilterValue() string { return i.name }

// Indicates that a report file has been read and rendered for the terminal.
type reportRenderedMsg struct {
	name    string
	content string
	err     error
}

type viewModel struct {
	styles     viewStyles
	state      viewState
	list       list.Model
	viewport   viewport.Model
	history    []*core.AnalysisRecord
	reportsDir string

	current string // name of the report on screen in stateViewing
	loadErr error

	// pending is rendered as soon as the first WindowSizeMsg arrives, which
	// is how an explicit file argument skips the list.
	pending *reportItem

	width  int
	height int
	ready  bool
}

func newViewModel(reportsDir string, reports []reportItem, records []*core.AnalysisRecord, initial *reportItem) *viewModel {
	styles := newViewStyles()

	items := make([]list.Item, 0, len(reports))
	for _, r := range reports {
		items = append(items, r)
	}

	l := list.New(items, newReportDelegate(), 0, 0)
	l.Title = "Argus analysis reports"
	l.Styles.Title = styles.titleBar
	l.SetStatusBarItemName("report", "reports")

	return &viewModel{
		styles:     styles,
		state:      stateList,
		list:       l,
		history:    records,
		reportsDir: reportsDir,
		pending:    initial,
	}
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

		if !m.ready {
			m.ready = true
			if m.pending != nil {
				item := *m.pending
				m.pending = nil
				return m, renderReportCmd(item.path, item.name, m.renderWidth())
			}
		}
		return m, nil

	case tea.KeyMsg:
		// While the list filter is active it owns every key.
		if m.state == stateList && m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state == stateViewing {
				m.state = stateList
				m.current = ""
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			if m.state == stateList {
				item, ok := m.list.SelectedItem().(reportItem)
				if !ok {
					return m, nil
				}
				m.loadErr = nil
				return m, renderReportCmd(item.path, item.name, m.renderWidth())
			}
		}

	case reportRenderedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			m.state = stateList
			return m, nil
		}
		m.current = msg.name
		m.viewport.SetContent(msg.content)
		m.viewport.GotoTop()
		m.state = stateViewing
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateList:
		m.list, cmd = m.list.Update(msg)
	case stateViewing:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *viewModel) View() string {
	if !m.ready {
		return "\n  Loading reports..."
	}

	switch m.state {
	case stateViewing:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.headerView(),
			m.viewport.View(),
			m.footerView(),
		)
	default:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.list.View(),
			m.listFooterView(),
		)
	}
}

// resize keeps both states sized to the terminal; the inactive one picks up
// the new size when it comes back on screen.
func (m *viewModel) resize() {
	footerHeight := lipgloss.Height(m.listFooterView())
	m.list.SetSize(m.width, m.height-footerHeight)

	headerHeight := lipgloss.Height(m.headerView())
	viewerFooter := lipgloss.Height(m.footerView())
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.width, m.height-headerHeight-viewerFooter)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = m.height - headerHeight - viewerFooter
	}
}

func (m *viewModel) renderWidth() int {
	width := m.width - 4
	if width > 120 {
		width = 120
	}
	if width < 20 {
		width = 20
	}
	return width
}

func (m *viewModel) headerView() string {
	name := m.current
	if name == "" {
		name = "report"
	}
	return m.styles.titleBar.Render(name)
}

func (m *viewModel) footerView() string {
	hints := m.styles.statusBar.Render("esc: back · q: quit · ↑/↓ scroll")
	percent := m.styles.statusBar.Render(fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100))

	gap := m.width - lipgloss.Width(hints) - lipgloss.Width(percent)
	if gap < 1 {
		gap = 1
	}
	return hints + strings.Repeat(" ", gap) + percent
}

func (m *viewModel) listFooterView() string {
	var lines []string
	if m.loadErr != nil {
		lines = append(lines, m.styles.errorText.Render(m.loadErr.Error()))
	}
	if footer := m.historyFooter(); footer != "" {
		lines = append(lines, footer)
	}
	lines = append(lines, m.styles.statusBar.Render("enter: open · /: filter · q: quit"))
	return strings.Join(lines, "\n")
}

// historyFooter summarizes the most recent recorded analyses, when the
// history store contributed any.
func (m *viewModel) historyFooter() string {
	if len(m.history) == 0 {
		return ""
	}

	parts := make([]string, 0, len(m.history))
	for _, rec := range m.history {
		status := m.styles.statusOK.Render(rec.Status)
		if rec.Status == string(core.StatusError) {
			status = m.styles.errorText.Render(rec.Status)
		}
		parts = append(parts, fmt.Sprintf("PR #%d %s", rec.PRNumber, status))
	}
	return m.styles.statusBar.Render("Recent: ") + strings.Join(parts, m.styles.statusBar.Render(" · "))
}

// renderReportCmd reads a report file and renders it for the terminal.
func renderReportCmd(path, name string, width int) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return reportRenderedMsg{name: name, err: fmt.Errorf("failed to read report: %w", err)}
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return reportRenderedMsg{name: name, err: fmt.Errorf("failed to build renderer: %w", err)}
		}

		content, err := renderer.Render(string(data))
		if err != nil {
			return reportRenderedMsg{name: name, err: fmt.Errorf("failed to render report: %w", err)}
		}
		return reportRenderedMsg{name: name, content: content}
	}
}
