package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// Dashboard tab indices.
const (
	tabToday = iota
	tabCoach
	tabCoins
	tabNotes
	tabCount
)

var tabNames = [tabCount]string{"Today", "Coach", "Coins", "Notes"}

type dashboardModel struct {
	activeTab int
	width     int
	height    int

	// Data.
	view     core.DayView
	mode     core.CoachMode
	selected int

	// Note entry.
	input     textinput.Model
	inputOpen bool

	bar     progress.Model
	updates <-chan struct{}

	// State.
	loading bool
	flash   string
	err     error
}

// dataLoadedMsg carries a freshly built day view back to the model.
type dataLoadedMsg struct {
	view core.DayView
	err  error
}

// actionDoneMsg reports the outcome of a mutation started from the dashboard.
type actionDoneMsg struct {
	flash string
	err   error
}

// stateChangedMsg is sent when another process saved the state file.
type stateChangedMsg struct{}

// Style definitions.
var (
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	selectedStyle  = lipgloss.NewStyle().Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	statusProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusDone     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusSkipped  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusOverdue  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusPending  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	creditStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	debitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// themeColors returns the two swatch colours of the active theme.
func themeColors(id models.ThemeID) (string, string) {
	th, ok := core.LookupTheme(id)
	if !ok {
		th, _ = core.LookupTheme(models.ThemeOcean)
	}
	return th.Swatch[0], th.Swatch[1]
}

func newProgressBar(theme models.ThemeID) progress.Model {
	a, b := themeColors(theme)
	return progress.New(progress.WithGradient(a, b), progress.WithWidth(30), progress.WithoutPercentage())
}

func newDashboardModel(updates <-chan struct{}) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Yangi eslatma..."
	ti.CharLimit = 280
	ti.Width = 50

	return dashboardModel{
		activeTab: tabToday,
		mode:      defaultCoachMode(),
		input:     ti,
		bar:       newProgressBar(models.ThemeOcean),
		updates:   updates,
		loading:   true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(loadData, waitForStateChange(m.updates))
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputOpen {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.view = msg.view
		m.err = nil
		m.bar = newProgressBar(m.view.Settings.Theme)
		if m.selected >= len(m.view.Today.Tasks) {
			m.selected = max(len(m.view.Today.Tasks)-1, 0)
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.flash = "Error: " + msg.err.Error()
		} else {
			m.flash = msg.flash
		}
		return m, loadData

	case stateChangedMsg:
		return m, tea.Batch(loadData, waitForStateChange(m.updates))
	}

	return m, nil
}

func (m dashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
	case "shift+tab":
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
	case "r":
		m.loading = true
		return m, loadData
	case "m":
		m.mode = core.NextCoachMode(m.mode)
	case "n":
		m.inputOpen = true
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd
	case "j", "down":
		if m.selected < len(m.view.Today.Tasks)-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
	case "s":
		return m, m.markSelected(models.StatusInProgress)
	case "c":
		return m, m.markSelected(models.StatusCompleted)
	case "x":
		return m, m.markSelected(models.StatusSkipped)
	case "p":
		return m, m.markSelected(models.StatusPending)
	case "1", "2", "3", "4":
		if m.activeTab == tabCoach {
			return m, m.captureAction(int(msg.String()[0] - '1'))
		}
	}
	return m, nil
}

func (m dashboardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputOpen = false
		m.input.Blur()
		return m, nil
	case "enter":
		text := m.input.Value()
		m.inputOpen = false
		m.input.Blur()
		return m, addNote(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// markSelected sets the status of the highlighted block.
func (m dashboardModel) markSelected(status models.TaskStatus) tea.Cmd {
	tasks := m.view.Today.Tasks
	if len(tasks) == 0 || Tracker == nil {
		return nil
	}
	task := tasks[m.selected]
	date := m.view.Today.Date
	return func() tea.Msg {
		err := Tracker.MarkTaskStatus(context.Background(), date, core.StatusChange{TaskID: task.ID, Status: status})
		return actionDoneMsg{flash: fmt.Sprintf("%s: %s", task.Title, status), err: err}
	}
}

// captureAction saves coach action i of the current report as a note.
func (m dashboardModel) captureAction(i int) tea.Cmd {
	actions := m.view.Report(m.mode).Actions
	if i < 0 || i >= len(actions) || Notes == nil {
		return nil
	}
	action := actions[i]
	return func() tea.Msg {
		note, err := Notes.CaptureAction(action)
		return actionDoneMsg{flash: "Saved: " + note, err: err}
	}
}

func addNote(text string) tea.Cmd {
	if Notes == nil {
		return nil
	}
	return func() tea.Msg {
		err := Notes.Add(text)
		return actionDoneMsg{flash: "Note saved", err: err}
	}
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	a, _ := themeColors(m.view.Settings.Theme)
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color(a)).
		Padding(0, 1).
		Render(" Focus Flow ")
	help := helpStyle.Render(m.helpLine())

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	var body string
	switch m.activeTab {
	case tabToday:
		body = m.renderToday()
	case tabCoach:
		body = m.renderCoach()
	case tabCoins:
		body = m.renderCoins()
	case tabNotes:
		body = m.renderNotes()
	}

	width := m.width - 6
	if width < 30 {
		width = 30
	}
	panel := panelStyle.BorderForeground(lipgloss.Color(a)).Width(width).Render(body)

	out := fmt.Sprintf("%s  %s\n\n%s\n", title, m.renderTabs(a), panel)
	if m.inputOpen {
		out += "\n  " + m.input.View() + "\n"
	}
	if m.flash != "" {
		out += "\n  " + m.flash + "\n"
	}
	return out + "\n" + help
}

func (m dashboardModel) helpLine() string {
	if m.inputOpen {
		return "enter: save note | esc: cancel"
	}
	base := "tab: switch | j/k: select | s/c/x/p: start/complete/skip/pending | m: mode | n: note | r: refresh | q: quit"
	if m.activeTab == tabCoach {
		base = "1-4: save action as note | " + base
	}
	return base
}

func (m dashboardModel) renderTabs(color string) string {
	active := tabStyle.Foreground(lipgloss.Color(color)).Bold(true).Underline(true)
	parts := make([]string, tabCount)
	for i, name := range tabNames {
		if i == m.activeTab {
			parts[i] = active.Render(name)
		} else {
			parts[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m dashboardModel) renderToday() string {
	var b strings.Builder
	today := m.view.Today
	b.WriteString(headerStyle.Render("Bugun " + today.Date))
	b.WriteString("\n")

	if today.Total == 0 {
		b.WriteString("  Bugun uchun reja yo'q.\n")
	}
	for i, t := range today.Tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s-%s %-6s %-26s", cursor, t.Start.Format("15:04"), t.End.Format("15:04"), taskMarker(t), t.Title)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		status := styleForStatus(t.DisplayStatus()).Render(fmt.Sprintf("%-11s", t.DisplayStatus()))
		fmt.Fprintf(&b, "%s %s +%d\n", line, status, t.Reward)
	}

	fmt.Fprintf(&b, "\n  %s %d%%  (%d/%d)\n", m.bar.ViewAs(today.Progress), today.CompletionPercent(), today.Completed, today.Total)
	fmt.Fprintf(&b, "  Coins: %d\n\n", m.view.CoinBank)
	b.WriteString("  " + m.view.Message)
	return b.String()
}

func (m dashboardModel) renderCoach() string {
	var b strings.Builder
	report := m.view.Report(m.mode)
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  (%s)", report.Headline, report.Mode)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n\n", report.Summary)
	for i, a := range report.Actions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, a)
	}
	return b.String()
}

func (m dashboardModel) renderCoins() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Coins: %d", m.view.CoinBank)))
	b.WriteString("\n")

	if len(m.view.Ledger) == 0 {
		b.WriteString("  Bugun tanga harakati yo'q.")
		return b.String()
	}
	for _, e := range newestFirst(m.view.Ledger, 0) {
		style := creditStyle
		if e.Amount < 0 {
			style = debitStyle
		}
		fmt.Fprintf(&b, "  %s %s %s\n", e.Date.Local().Format("15:04"), style.Render(fmt.Sprintf("%+5d", e.Amount)), e.Label)
	}
	fmt.Fprintf(&b, "\n  Today: %+d", core.NetCoins(m.view.Ledger))
	return b.String()
}

func (m dashboardModel) renderNotes() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Eslatmalar"))
	b.WriteString("\n")

	if len(m.view.Notes) == 0 {
		b.WriteString("  Eslatmalar yo'q. n: yangi eslatma.")
		return b.String()
	}
	for _, n := range m.view.Notes {
		fmt.Fprintf(&b, "  - %s\n", n)
	}
	return b.String()
}

func styleForStatus(status string) lipgloss.Style {
	switch status {
	case "in_progress":
		return statusProgress
	case "completed":
		return statusDone
	case "skipped":
		return statusSkipped
	case "overdue":
		return statusOverdue
	case "pending":
		return statusPending
	default:
		return lipgloss.NewStyle()
	}
}

func loadData() tea.Msg {
	if DayViews == nil {
		return dataLoadedMsg{err: fmt.Errorf("day view builder not initialized")}
	}
	if err := reloadState(); err != nil {
		return dataLoadedMsg{err: err}
	}
	return dataLoadedMsg{view: DayViews.Build(now())}
}

// waitForStateChange blocks until the watcher reports a change. A nil
// channel yields no command.
func waitForStateChange(updates <-chan struct{}) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI for today, the coach, coins and notes",
	Long: `Launch an interactive terminal dashboard with four tabs: Today, Coach,
Coins and Notes.

Select a block with j/k and mark it with s (start), c (complete), x (skip)
or p (pending). Press m to cycle the coach mode, n to add a note, r to
refresh and q to quit. Changes made by other focus commands show up live.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if DayViews == nil || Tracker == nil {
			return fmt.Errorf("services not initialized")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		updates, err := watchState(ctx)
		if err != nil {
			return err
		}

		p := tea.NewProgram(newDashboardModel(updates), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
