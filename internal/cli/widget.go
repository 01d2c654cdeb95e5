package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/focus-flow/internal/core"
)

const defaultWidgetRefresh = 30 * time.Second

type widgetModel struct {
	view    core.DayView
	bar     progress.Model
	refresh time.Duration
	updates <-chan struct{}
	err     error
}

type widgetTickMsg time.Time

func newWidgetModel(refresh time.Duration, updates <-chan struct{}) widgetModel {
	if refresh <= 0 {
		refresh = defaultWidgetRefresh
	}
	return widgetModel{
		bar:     newProgressBar(""),
		refresh: refresh,
		updates: updates,
	}
}

func (m widgetModel) Init() tea.Cmd {
	return tea.Batch(loadData, m.tick(), waitForStateChange(m.updates))
}

func (m widgetModel) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return widgetTickMsg(t) })
}

func (m widgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case widgetTickMsg:
		// Rebuild without reloading: the clock moved, the state did not.
		if DayViews != nil {
			m.view = DayViews.Build(now())
		}
		return m, m.tick()
	case stateChangedMsg:
		return m, tea.Batch(loadData, waitForStateChange(m.updates))
	case dataLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.view = msg.view
			m.bar = newProgressBar(m.view.Settings.Theme)
		}
	}
	return m, nil
}

func (m widgetModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error()
	}

	a, _ := themeColors(m.view.Settings.Theme)
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(a)).Bold(true)

	var b strings.Builder
	today := m.view.Today
	fmt.Fprintf(&b, "%s  %s\n", accent.Render("Focus Flow"), now().Format("15:04"))
	if next := today.NextTask; next != nil {
		label := "Keyingi"
		if next.IsCurrent {
			label = "Hozir"
		}
		fmt.Fprintf(&b, "%s: %s %s-%s\n", label, next.Title, next.Start.Format("15:04"), next.End.Format("15:04"))
	} else {
		b.WriteString("Bugun uchun bloklar tugadi.\n")
	}
	fmt.Fprintf(&b, "%s %d%% (%d/%d)  Coins: %d\n", m.bar.ViewAs(today.Progress), today.CompletionPercent(), today.Completed, today.Total, m.view.CoinBank)
	b.WriteString(m.view.Message)
	if m.view.Settings.WidgetPinned {
		b.WriteString("\n" + helpStyle.Render("pinned | q: close"))
	}
	return panelStyle.Padding(0, 1).BorderForeground(lipgloss.Color(a)).Render(b.String())
}

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Compact live view of the next block and today's progress",
	Long: `Show a compact view with the current or next block, today's progress and
the coach message. It refreshes every widget.refresh_seconds and whenever
another focus command changes the state.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if DayViews == nil {
			return fmt.Errorf("day view builder not initialized")
		}

		refresh := defaultWidgetRefresh
		if Config != nil && Config.WidgetRefreshSeconds > 0 {
			refresh = time.Duration(Config.WidgetRefreshSeconds) * time.Second
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		updates, err := watchState(ctx)
		if err != nil {
			return err
		}

		_, err = tea.NewProgram(newWidgetModel(refresh, updates)).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(widgetCmd)
}
