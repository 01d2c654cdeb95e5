package core

import (
	"sort"
	"time"

	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// TodayTaskView is a plan task projected onto a concrete day with its
// resolved status and timing flags.
type TodayTaskView struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Start       time.Time         `json:"start"`
	End         time.Time         `json:"end"`
	Status      models.TaskStatus `json:"status"`
	Difficulty  models.Difficulty `json:"difficulty"`
	Category    string            `json:"category"`
	Reward      int               `json:"reward"`
	IsCurrent   bool              `json:"is_current"`
	IsUpcoming  bool              `json:"is_upcoming"`
	IsOverdue   bool              `json:"is_overdue"`
}

// DisplayStatus is the label shown for the task: pending tasks past their
// end read as "overdue".
func (v TodayTaskView) DisplayStatus() string {
	if v.Status == models.StatusPending && v.IsOverdue {
		return "overdue"
	}
	return string(v.Status)
}

// TodaySnapshot aggregates the day's tasks.
type TodaySnapshot struct {
	Date      string          `json:"date"`
	Tasks     []TodayTaskView `json:"tasks"`
	NextTask  *TodayTaskView  `json:"next_task,omitempty"`
	Progress  float64         `json:"progress"`
	Completed int             `json:"completed"`
	Skipped   int             `json:"skipped"`
	Overdue   int             `json:"overdue"`
	Total     int             `json:"total"`
}

// CompletionPercent returns progress as a rounded whole percentage.
func (s TodaySnapshot) CompletionPercent() int {
	return int(s.Progress*100 + 0.5)
}

// BuildTodaySnapshot projects the weekly plan onto the day containing now,
// resolves each task's status from log (which may be nil) and derives the
// day's counters. It never fails; an empty day yields a zero snapshot.
func BuildTodaySnapshot(plan []models.WeeklyTask, log *models.DailyLog, now time.Time) TodaySnapshot {
	isoDay := ISOWeekday(now)

	tasks := make([]TodayTaskView, 0, len(plan))
	for _, task := range plan {
		if task.Weekday != isoDay {
			continue
		}
		start := atClock(now, task.Hour, task.Minute)
		end := start.Add(time.Duration(task.DurationMinutes) * time.Minute)
		status := log.StatusOf(task.ID)

		tasks = append(tasks, TodayTaskView{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Start:       start,
			End:         end,
			Status:      status,
			Difficulty:  task.Difficulty,
			Category:    task.Category,
			Reward:      task.CoinReward,
			IsCurrent:   !now.Before(start) && now.Before(end) && status != models.StatusCompleted,
			IsUpcoming:  now.Before(start) && status != models.StatusCompleted,
			IsOverdue:   !now.Before(end) && status != models.StatusCompleted && status != models.StatusSkipped,
		})
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Start.Before(tasks[j].Start)
	})

	snap := TodaySnapshot{
		Date:  DateKey(now),
		Tasks: tasks,
		Total: len(tasks),
	}
	for i, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			snap.Completed++
		case models.StatusSkipped:
			snap.Skipped++
		}
		if t.IsOverdue {
			snap.Overdue++
		}
		if snap.NextTask == nil && (t.IsCurrent || t.IsUpcoming) {
			snap.NextTask = &tasks[i]
		}
	}
	if snap.Total > 0 {
		snap.Progress = float64(snap.Completed) / float64(snap.Total)
	}

	return snap
}
