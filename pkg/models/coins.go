package models

import "time"

// LedgerType is the business reason behind a coin ledger entry.
type LedgerType string

const (
	LedgerReward     LedgerType = "reward"
	LedgerPenalty    LedgerType = "penalty"
	LedgerAdjustment LedgerType = "adjustment"
	LedgerBonus      LedgerType = "bonus"
)

// CoinLedgerEntry is a single immutable coin movement. Positive amounts are
// credits, negative amounts are debits. Task movements carry the key of the
// daily log they belong to, which can differ from the day of Date when a
// past day is marked.
type CoinLedgerEntry struct {
	ID      string     `yaml:"id" json:"id"`
	Date    time.Time  `yaml:"date" json:"date"`
	Amount  int        `yaml:"amount" json:"amount"`
	Label   string     `yaml:"label" json:"label"`
	Type    LedgerType `yaml:"type" json:"type"`
	TaskID  string     `yaml:"task_id,omitempty" json:"task_id,omitempty"`
	DateKey string     `yaml:"date_key,omitempty" json:"date_key,omitempty"`
}
