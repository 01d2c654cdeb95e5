package models

import "time"

// DailyLog holds the task statuses recorded for a single calendar day.
type DailyLog struct {
	Tasks     []DailyLogEntry `yaml:"tasks" json:"tasks"`
	UpdatedAt time.Time       `yaml:"updated_at" json:"updated_at"`
}

// StatusOf returns the recorded status of taskID, or DefaultStatus when the
// log is nil or holds no entry for the task.
func (l *DailyLog) StatusOf(taskID string) TaskStatus {
	if l == nil {
		return DefaultStatus
	}
	for _, e := range l.Tasks {
		if e.TaskID == taskID {
			if e.Status == "" {
				return DefaultStatus
			}
			return e.Status
		}
	}
	return DefaultStatus
}
