// Package mcp exposes Focus Flow to AI assistants as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/focus-flow/internal/core"
	"github.com/valter-silva-au/focus-flow/internal/observability"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// Services are the Focus Flow services the tools call. Metrics and Alerts
// may be nil when the event log is unavailable.
type Services struct {
	DayViews    core.DayViewBuilder
	Tracker     core.StatusTracker
	Plan        core.PlanManager
	Notes       core.NoteManager
	Metrics     observability.MetricsCalculator
	Alerts      observability.AlertEngine
	DefaultMode core.CoachMode
}

// Server wraps the services and exposes them as MCP tools.
type Server struct {
	server *gomcp.Server
	svc    Services
	now    func() time.Time
}

// NewServer creates an MCP server over svc.
func NewServer(svc Services, version string) *Server {
	if version == "" {
		version = "dev"
	}
	if svc.DefaultMode == "" {
		svc.DefaultMode = core.CoachMomentum
	}

	s := &Server{svc: svc, now: time.Now}
	s.server = gomcp.NewServer(&gomcp.Implementation{Name: "focus", Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getTodayInput struct{}

type todayTaskOutput struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Status        string `json:"status"`
	DisplayStatus string `json:"display_status"`
	Difficulty    string `json:"difficulty"`
	Category      string `json:"category"`
	Reward        int    `json:"reward"`
	IsCurrent     bool   `json:"is_current"`
	IsUpcoming    bool   `json:"is_upcoming"`
	IsOverdue     bool   `json:"is_overdue"`
}

type todayOutput struct {
	Date              string            `json:"date"`
	Tasks             []todayTaskOutput `json:"tasks"`
	NextTaskID        string            `json:"next_task_id,omitempty"`
	CompletionPercent int               `json:"completion_percent"`
	Completed         int               `json:"completed"`
	Skipped           int               `json:"skipped"`
	Overdue           int               `json:"overdue"`
	Total             int               `json:"total"`
	Message           string            `json:"message"`
	CoinBank          int               `json:"coin_bank"`
	Evening           bool              `json:"evening"`
}

type getCoachReportInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"coach mode: momentum, balance or reset. Defaults to the configured mode."`
}

type coachReportOutput struct {
	Mode     string   `json:"mode"`
	Headline string   `json:"headline"`
	Summary  string   `json:"summary"`
	Actions  []string `json:"actions"`
}

type markTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"the plan task identifier"`
	Status string `json:"status" jsonschema:"the new status: pending, in_progress, completed or skipped"`
	Date   string `json:"date,omitempty" jsonschema:"the day to update as YYYY-MM-DD. Defaults to today."`
}

type markTaskStatusOutput struct {
	Message  string `json:"message"`
	CoinBank int    `json:"coin_bank"`
}

type listPlanInput struct {
	Weekday *int `json:"weekday,omitempty" jsonschema:"only list tasks on this weekday, 0 (Monday) to 6 (Sunday)"`
}

type planTaskOutput struct {
	ID              string `json:"id"`
	Weekday         int    `json:"weekday"`
	Start           string `json:"start"`
	DurationMinutes int    `json:"duration_minutes"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Difficulty      string `json:"difficulty"`
	Category        string `json:"category"`
	CoinReward      int    `json:"coin_reward"`
}

type listPlanOutput struct {
	Tasks     []planTaskOutput `json:"tasks"`
	Count     int              `json:"count"`
	EditsLeft int              `json:"edits_left"`
}

type addQuickNoteInput struct {
	Text string `json:"text" jsonschema:"the note text"`
}

type addQuickNoteOutput struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	StatusChanges  int            `json:"status_changes"`
	TasksByStatus  map[string]int `json:"tasks_by_status"`
	TasksCompleted int            `json:"tasks_completed"`
	TasksSkipped   int            `json:"tasks_skipped"`
	CoinsEarned    int            `json:"coins_earned"`
	CoinsLost      int            `json:"coins_lost"`
	NetCoins       int            `json:"net_coins"`
	PlanEdits      int            `json:"plan_edits"`
	NotesAdded     int            `json:"notes_added"`
	EventCount     int            `json:"event_count"`
	OldestEvent    string         `json:"oldest_event,omitempty"`
	NewestEvent    string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct {
	LeadMinutes int `json:"lead_minutes,omitempty" jsonschema:"also report tasks starting within this many minutes"`
}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_today",
		Description: "Get today's planned blocks with their status, progress counters, the next block and the short coach message.",
	}, s.handleGetToday)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_coach_report",
		Description: "Get the coach report for today: headline, summary and up to four suggested actions.",
	}, s.handleGetCoachReport)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "mark_task_status",
		Description: "Set a planned block's status for a day. Completing credits its coin reward; skipping debits the skip penalty.",
	}, s.handleMarkTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_plan",
		Description: "List the recurring weekly plan, optionally for one weekday, with the plan edits left this week.",
	}, s.handleListPlan)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_quick_note",
		Description: "Add a quick note at the top of the notes list.",
	}, s.handleAddQuickNote)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log: status changes, coins earned and lost, plan edits and notes.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (overdue blocks, penalties, low evening progress, stalled blocks).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleGetToday(_ context.Context, _ *gomcp.CallToolRequest, _ getTodayInput) (*gomcp.CallToolResult, todayOutput, error) {
	view := s.svc.DayViews.Build(s.now())
	today := view.Today

	out := todayOutput{
		Date:              today.Date,
		Tasks:             make([]todayTaskOutput, len(today.Tasks)),
		CompletionPercent: today.CompletionPercent(),
		Completed:         today.Completed,
		Skipped:           today.Skipped,
		Overdue:           today.Overdue,
		Total:             today.Total,
		Message:           view.Message,
		CoinBank:          view.CoinBank,
		Evening:           view.Evening,
	}
	for i, t := range today.Tasks {
		out.Tasks[i] = todayTaskOutput{
			ID:            t.ID,
			Title:         t.Title,
			Start:         t.Start.Format("15:04"),
			End:           t.End.Format("15:04"),
			Status:        string(t.Status),
			DisplayStatus: t.DisplayStatus(),
			Difficulty:    string(t.Difficulty),
			Category:      t.Category,
			Reward:        t.Reward,
			IsCurrent:     t.IsCurrent,
			IsUpcoming:    t.IsUpcoming,
			IsOverdue:     t.IsOverdue,
		}
	}
	if today.NextTask != nil {
		out.NextTaskID = today.NextTask.ID
	}
	return nil, out, nil
}

func (s *Server) handleGetCoachReport(_ context.Context, _ *gomcp.CallToolRequest, input getCoachReportInput) (*gomcp.CallToolResult, coachReportOutput, error) {
	mode := s.svc.DefaultMode
	if input.Mode != "" {
		m, err := core.ParseCoachMode(input.Mode)
		if err != nil {
			return errorResult(err.Error()), coachReportOutput{}, nil
		}
		mode = m
	}

	report := s.svc.DayViews.Build(s.now()).Report(mode)
	return nil, coachReportOutput{
		Mode:     string(report.Mode),
		Headline: report.Headline,
		Summary:  report.Summary,
		Actions:  report.Actions,
	}, nil
}

func (s *Server) handleMarkTaskStatus(ctx context.Context, _ *gomcp.CallToolRequest, input markTaskStatusInput) (*gomcp.CallToolResult, markTaskStatusOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), markTaskStatusOutput{}, nil
	}
	status := models.TaskStatus(input.Status)
	if !status.Valid() {
		return errorResult(fmt.Sprintf("invalid status %q: must be one of pending, in_progress, completed, skipped", input.Status)), markTaskStatusOutput{}, nil
	}

	now := s.now()
	date := input.Date
	if date == "" {
		date = core.DateKey(now)
	}

	err := s.svc.Tracker.MarkTaskStatus(ctx, date, core.StatusChange{TaskID: input.TaskID, Status: status})
	if err != nil {
		if errors.Is(err, core.ErrNotScheduled) {
			return errorResult(fmt.Sprintf("task %s is not scheduled on %s", input.TaskID, date)), markTaskStatusOutput{}, nil
		}
		if errors.Is(err, core.ErrFutureDate) {
			return errorResult(fmt.Sprintf("%s is in the future", date)), markTaskStatusOutput{}, nil
		}
		if errors.Is(err, core.ErrTaskNotFound) {
			return errorResult(fmt.Sprintf("task %s is not in the weekly plan", input.TaskID)), markTaskStatusOutput{}, nil
		}
		return errorResult(fmt.Sprintf("updating task %s status: %s", input.TaskID, err)), markTaskStatusOutput{}, nil
	}

	return nil, markTaskStatusOutput{
		Message:  fmt.Sprintf("task %s marked %s on %s", input.TaskID, status, date),
		CoinBank: s.svc.DayViews.Build(now).CoinBank,
	}, nil
}

func (s *Server) handleListPlan(_ context.Context, _ *gomcp.CallToolRequest, input listPlanInput) (*gomcp.CallToolResult, listPlanOutput, error) {
	if input.Weekday != nil && (*input.Weekday < 0 || *input.Weekday > 6) {
		return errorResult(fmt.Sprintf("weekday %d must be between 0 (Monday) and 6 (Sunday)", *input.Weekday)), listPlanOutput{}, nil
	}

	tasks := s.svc.Plan.ListTasks(input.Weekday)
	out := listPlanOutput{
		Tasks:     make([]planTaskOutput, len(tasks)),
		Count:     len(tasks),
		EditsLeft: s.svc.Plan.EditsLeft(),
	}
	for i, t := range tasks {
		out.Tasks[i] = planTaskOutput{
			ID:              t.ID,
			Weekday:         t.Weekday,
			Start:           fmt.Sprintf("%02d:%02d", t.Hour, t.Minute),
			DurationMinutes: t.DurationMinutes,
			Title:           t.Title,
			Description:     t.Description,
			Difficulty:      string(t.Difficulty),
			Category:        t.Category,
			CoinReward:      t.CoinReward,
		}
	}
	return nil, out, nil
}

func (s *Server) handleAddQuickNote(_ context.Context, _ *gomcp.CallToolRequest, input addQuickNoteInput) (*gomcp.CallToolResult, addQuickNoteOutput, error) {
	if err := s.svc.Notes.Add(input.Text); err != nil {
		return errorResult(err.Error()), addQuickNoteOutput{}, nil
	}
	return nil, addQuickNoteOutput{
		Message: "note saved",
		Count:   len(s.svc.Notes.List()),
	}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.svc.Metrics == nil {
		return errorResult("metrics calculator not available (event log disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	sinceTime, err := parseSince(sinceStr, s.now())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	m, err := s.svc.Metrics.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		StatusChanges:  m.StatusChanges,
		TasksByStatus:  m.TasksByStatus,
		TasksCompleted: m.TasksCompleted,
		TasksSkipped:   m.TasksSkipped,
		CoinsEarned:    m.CoinsEarned,
		CoinsLost:      m.CoinsLost,
		NetCoins:       m.NetCoins,
		PlanEdits:      m.PlanEdits,
		NotesAdded:     m.NotesAdded,
		EventCount:     m.EventCount,
	}
	if out.TasksByStatus == nil {
		out.TasksByStatus = make(map[string]int)
	}
	if m.OldestEvent != nil {
		out.OldestEvent = m.OldestEvent.Format(time.RFC3339)
	}
	if m.NewestEvent != nil {
		out.NewestEvent = m.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, input getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.svc.Alerts == nil {
		return errorResult("alert engine not available (event log disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.svc.Alerts.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}
	if input.LeadMinutes > 0 {
		alerts = append(alerts, s.svc.Alerts.Upcoming(time.Duration(input.LeadMinutes)*time.Minute)...)
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

// --- Helpers ---

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{TasksByStatus: make(map[string]int)}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince turns "7d" or "24h" into the instant that long before now.
func parseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	var num int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
