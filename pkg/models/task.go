package models

// Difficulty represents how demanding a planned block is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyBoss   Difficulty = "boss"
)

// DefaultCategory is applied to plan tasks created without a category.
const DefaultCategory = "focus"

// DefaultReward returns the coin reward assigned to a task of the given
// difficulty when none is specified.
func (d Difficulty) DefaultReward() int {
	switch d {
	case DifficultyEasy:
		return 5
	case DifficultyMedium:
		return 10
	case DifficultyHard:
		return 20
	case DifficultyBoss:
		return 40
	default:
		return 0
	}
}

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	return d.DefaultReward() > 0
}

// TaskStatus represents the state of a planned task on a given day.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusSkipped    TaskStatus = "skipped"
)

// DefaultStatus is the status of a task that has no daily log entry.
const DefaultStatus = StatusPending

// AllStatuses lists every task status in lifecycle order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusSkipped}
}

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// WeeklyTask is a recurring block in the weekly plan. Weekday uses the
// Monday=0 .. Sunday=6 convention.
type WeeklyTask struct {
	ID              string     `yaml:"id" json:"id"`
	Weekday         int        `yaml:"weekday" json:"weekday"`
	Hour            int        `yaml:"hour" json:"hour"`
	Minute          int        `yaml:"minute" json:"minute"`
	DurationMinutes int        `yaml:"duration_minutes" json:"duration_minutes"`
	Title           string     `yaml:"title" json:"title"`
	Description     string     `yaml:"description,omitempty" json:"description,omitempty"`
	Difficulty      Difficulty `yaml:"difficulty" json:"difficulty"`
	Category        string     `yaml:"category" json:"category"`
	CoinReward      int        `yaml:"coin_reward" json:"coin_reward"`
}

// DailyLogEntry records the status of one plan task on one day.
type DailyLogEntry struct {
	TaskID string     `yaml:"task_id" json:"task_id"`
	Status TaskStatus `yaml:"status" json:"status"`
}
