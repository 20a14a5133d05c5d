package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/loader"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginLeft(2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

const maxMembersWidth = 48

func newViewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <fixture>",
		Short: "Step through split rounds interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.view(cmd, args[0])
		},
	}

	cmd.Flags().Float64("epsilon", algorithms.DefaultTieEpsilon, "relative tolerance for tied betweenness scores")
	cmd.Flags().Bool("watch", false, "reload the fixture when the file changes")

	return cmd
}

func (a *app) view(cmd *cobra.Command, path string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	fx, err := loader.LoadFile(path)
	if err != nil {
		return err
	}

	opts := cfg.Options(nil, nil)
	opts.MaxRemovals = 0
	p := tea.NewProgram(newViewModel(path, fx, opts), tea.WithAltScreen(), tea.WithOutput(a.stdout))

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		w, err := loader.NewWatcher(path)
		if err != nil {
			return err
		}
		defer w.Stop()

		go func() {
			for range w.Changes {
				p.Send(reloadMsg{})
			}
		}()
	}

	_, err = p.Run()
	return err
}

type viewKeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Reset key.Binding
	Quit  key.Binding
}

var viewKeys = viewKeyMap{
	Next: key.NewBinding(
		key.WithKeys("n", "right", "l"),
		key.WithHelp("n/→", "next round"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "left", "h"),
		key.WithHelp("p/←", "previous round"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Reset, k.Quit}
}

func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// reloadMsg asks the model to re-read its fixture from disk
type reloadMsg struct{}

type viewModel struct {
	path    string
	fixture *loader.Fixture
	opts    algorithms.GirvanNewmanOptions
	rounds  int
	result  *algorithms.GirvanNewmanResult

	table      table.Model
	help       help.Model
	keys       viewKeyMap
	width      int
	message    string
	messageErr bool
}

func newViewModel(path string, fx *loader.Fixture, opts algorithms.GirvanNewmanOptions) viewModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Size", Width: 6},
		{Title: "Density", Width: 8},
		{Title: "Members", Width: maxMembersWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := viewModel{
		path:    path,
		fixture: fx,
		opts:    opts,
		table:   t,
		help:    help.New(),
		keys:    viewKeys,
	}
	_ = m.recompute()
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case reloadMsg:
		fx, err := loader.LoadFile(m.path)
		if err != nil {
			m.setMessage(fmt.Sprintf("Reload failed: %v", err), true)
			return m, nil
		}
		m.fixture = fx
		m.step(0)
		if !m.messageErr {
			m.setMessage(fmt.Sprintf("Reloaded %d nodes, %d edges", fx.NodeCount(), fx.EdgeCount()), false)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			if m.rounds > 0 {
				m.step(-1)
			}
			return m, nil

		case key.Matches(msg, m.keys.Reset):
			m.step(-m.rounds)
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// step moves delta rounds, staying put when the graph cannot split further
// or the run fails
func (m *viewModel) step(delta int) {
	prev := m.rounds
	m.rounds += delta
	if err := m.recompute(); err != nil {
		m.rounds = prev
		m.opts.Rounds = prev
		return
	}

	if m.result != nil && m.result.Status == algorithms.StatusExhausted && m.rounds > 0 {
		m.rounds = m.result.RoundsCompleted()
		_ = m.recompute()
		m.setMessage(fmt.Sprintf("No further split after round %d", m.rounds), true)
	}
}

// recompute runs the current number of rounds from scratch. On error the
// previous result and rows stay on screen.
func (m *viewModel) recompute() error {
	m.opts.Rounds = m.rounds
	result, err := algorithms.GirvanNewmanWithOptions(m.fixture.Graph, m.opts)
	if err != nil {
		m.setMessage(err.Error(), true)
		return err
	}

	m.result = result
	m.message = ""
	m.messageErr = false

	rows := make([]table.Row, 0, len(result.Communities))
	for _, c := range result.Communities {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", c.ID),
			fmt.Sprintf("%d", c.Size),
			fmt.Sprintf("%.3f", c.Density),
			m.formatMembers(c.Nodes),
		})
	}
	m.table.SetRows(rows)
	return nil
}

func (m *viewModel) setMessage(msg string, isErr bool) {
	m.message = msg
	m.messageErr = isErr
}

func (m viewModel) formatMembers(nodes []uint64) string {
	ids := make([]uint64, len(nodes))
	for i, id := range nodes {
		ids[i] = m.fixture.FixtureID(id)
	}
	slices.Sort(ids)

	var b strings.Builder
	for i, id := range ids {
		part := fmt.Sprintf("%d", id)
		if i > 0 {
			part = " " + part
		}
		if b.Len()+len(part) > maxMembersWidth-4 {
			b.WriteString(" ...")
			break
		}
		b.WriteString(part)
	}
	return b.String()
}

func (m viewModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Girvan-Newman: " + m.path))
	s.WriteString("\n\n")

	if m.result != nil {
		stats := fmt.Sprintf("Round %d   Communities %d   Modularity %.4f   Removed %d",
			m.rounds, len(m.result.Communities), m.result.Modularity, len(m.result.Removed))
		s.WriteString(statsStyle.Render(stats))
		s.WriteString("\n")
		s.WriteString(contentStyle.Render(m.table.View()))

		if n := len(m.result.Removed); n > 0 {
			last := m.result.Removed[n-1]
			s.WriteString("\n")
			s.WriteString(contentStyle.Render(fmt.Sprintf("Last removed edge: %d-%d",
				m.fixture.FixtureID(last.A), m.fixture.FixtureID(last.B))))
		}
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}
