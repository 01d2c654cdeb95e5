package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/focus-flow/pkg/models"
)

// PlanManager manages the recurring weekly plan. Every successful mutation
// consumes one of the week's edits.
type PlanManager interface {
	ListTasks(weekday *int) []models.WeeklyTask
	GetTask(id string) (*models.WeeklyTask, error)
	AddTask(task models.WeeklyTask) (*models.WeeklyTask, error)
	UpdateTask(id string, update PlanTaskUpdate) (*models.WeeklyTask, error)
	RemoveTask(id string) error
	EditsLeft() int
}

// PlanTaskUpdate holds the fields to change on a plan task. Nil fields are
// left untouched.
type PlanTaskUpdate struct {
	Weekday         *int
	Hour            *int
	Minute          *int
	DurationMinutes *int
	Title           *string
	Description     *string
	Difficulty      *models.Difficulty
	Category        *string
	CoinReward      *int
}

type planManager struct {
	store     StateStore
	events    EventLogger
	editLimit int
	now       func() time.Time
}

// NewPlanManager creates a PlanManager allowing editLimit mutations per ISO
// week. events may be nil.
func NewPlanManager(store StateStore, events EventLogger, editLimit int) PlanManager {
	return &planManager{
		store:     store,
		events:    events,
		editLimit: editLimit,
		now:       time.Now,
	}
}

// ListTasks returns plan tasks ordered by weekday, start time and title,
// optionally restricted to one weekday.
func (pm *planManager) ListTasks(weekday *int) []models.WeeklyTask {
	plan := pm.store.State().WeeklyPlan
	out := make([]models.WeeklyTask, 0, len(plan))
	for _, t := range plan {
		if weekday != nil && t.Weekday != *weekday {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		if am, bm := a.Hour*60+a.Minute, b.Hour*60+b.Minute; am != bm {
			return am < bm
		}
		return a.Title < b.Title
	})
	return out
}

func (pm *planManager) GetTask(id string) (*models.WeeklyTask, error) {
	task, ok := findPlanTask(pm.store.State().WeeklyPlan, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return &task, nil
}

// EditsLeft returns how many plan edits remain in the current ISO week.
func (pm *planManager) EditsLeft() int {
	meta := pm.store.State().WeekMeta
	used := meta.EditsUsed
	if meta.WeekKey != WeekKey(pm.now()) {
		used = 0
	}
	if left := pm.editLimit - used; left > 0 {
		return left
	}
	return 0
}

func (pm *planManager) AddTask(task models.WeeklyTask) (*models.WeeklyTask, error) {
	task.ID = uuid.NewString()
	task.Title = strings.TrimSpace(task.Title)
	if task.Category == "" {
		task.Category = models.DefaultCategory
	}
	if task.Difficulty == "" {
		task.Difficulty = models.DifficultyMedium
	}
	if task.CoinReward == 0 {
		task.CoinReward = task.Difficulty.DefaultReward()
	}
	if err := ValidatePlanTask(task); err != nil {
		return nil, fmt.Errorf("adding plan task: %w", err)
	}

	err := pm.store.Mutate(func(s *models.State) error {
		if err := pm.consumeEdit(s); err != nil {
			return err
		}
		s.WeeklyPlan = append(s.WeeklyPlan, task)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adding plan task: %w", err)
	}

	logEvent(pm.events, "plan.task_added", map[string]any{"task_id": task.ID, "weekday": task.Weekday})
	return &task, nil
}

func (pm *planManager) UpdateTask(id string, update PlanTaskUpdate) (*models.WeeklyTask, error) {
	var updated models.WeeklyTask
	err := pm.store.Mutate(func(s *models.State) error {
		idx := -1
		for i, t := range s.WeeklyPlan {
			if t.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}

		updated = applyPlanUpdate(s.WeeklyPlan[idx], update)
		if err := ValidatePlanTask(updated); err != nil {
			return err
		}
		if err := pm.consumeEdit(s); err != nil {
			return err
		}
		s.WeeklyPlan[idx] = updated
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating plan task %s: %w", id, err)
	}

	logEvent(pm.events, "plan.task_updated", map[string]any{"task_id": id})
	return &updated, nil
}

func (pm *planManager) RemoveTask(id string) error {
	err := pm.store.Mutate(func(s *models.State) error {
		kept := make([]models.WeeklyTask, 0, len(s.WeeklyPlan))
		for _, t := range s.WeeklyPlan {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(s.WeeklyPlan) {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		if err := pm.consumeEdit(s); err != nil {
			return err
		}
		s.WeeklyPlan = kept
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing plan task %s: %w", id, err)
	}

	logEvent(pm.events, "plan.task_removed", map[string]any{"task_id": id})
	return nil
}

// consumeEdit rolls the week counter over when the ISO week changed and
// records one more edit, failing when the limit is exhausted.
func (pm *planManager) consumeEdit(s *models.State) error {
	week := WeekKey(pm.now())
	if s.WeekMeta.WeekKey != week {
		s.WeekMeta = models.WeekMeta{WeekKey: week}
	}
	if s.WeekMeta.EditsUsed >= pm.editLimit {
		return fmt.Errorf("%w (%d per week)", ErrEditLimitReached, pm.editLimit)
	}
	s.WeekMeta.EditsUsed++
	return nil
}

func applyPlanUpdate(t models.WeeklyTask, u PlanTaskUpdate) models.WeeklyTask {
	if u.Weekday != nil {
		t.Weekday = *u.Weekday
	}
	if u.Hour != nil {
		t.Hour = *u.Hour
	}
	if u.Minute != nil {
		t.Minute = *u.Minute
	}
	if u.DurationMinutes != nil {
		t.DurationMinutes = *u.DurationMinutes
	}
	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Difficulty != nil {
		t.Difficulty = *u.Difficulty
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.CoinReward != nil {
		t.CoinReward = *u.CoinReward
	}
	return t
}

// ValidatePlanTask checks a plan task's fields and reports every problem in
// one error.
func ValidatePlanTask(t models.WeeklyTask) error {
	var errs []string
	if t.Weekday < 0 || t.Weekday > 6 {
		errs = append(errs, fmt.Sprintf("weekday %d must be between 0 (Mon) and 6 (Sun)", t.Weekday))
	}
	if t.Hour < 0 || t.Hour > 23 {
		errs = append(errs, fmt.Sprintf("hour %d must be between 0 and 23", t.Hour))
	}
	if t.Minute < 0 || t.Minute > 59 {
		errs = append(errs, fmt.Sprintf("minute %d must be between 0 and 59", t.Minute))
	}
	if t.DurationMinutes < 1 || t.DurationMinutes > 24*60 {
		errs = append(errs, fmt.Sprintf("duration %d must be between 1 and 1440 minutes", t.DurationMinutes))
	}
	if t.Title == "" {
		errs = append(errs, "title must not be empty")
	}
	if !t.Difficulty.Valid() {
		errs = append(errs, fmt.Sprintf("difficulty %q must be one of easy, medium, hard, boss", t.Difficulty))
	}
	if t.CoinReward < 0 {
		errs = append(errs, fmt.Sprintf("coin reward %d must be non-negative", t.CoinReward))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid plan task: %s", strings.Join(errs, "; "))
	}
	return nil
}
