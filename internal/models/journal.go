package models

import "time"

type JournalAction string

const (
	JournalCreate JournalAction = "create"
	JournalUpdate JournalAction = "update"
	JournalDelete JournalAction = "delete"
)

// JournalEntry: trace des opérations d'écriture (qui a fait quoi, sur quoi).
type JournalEntry struct {
	ID          uint          `gorm:"primaryKey"`
	UserID      uint          `gorm:"index"`
	UserName    string        `gorm:"size:100"`
	EntityType  string        `gorm:"size:50;index;not null"`
	EntityID    uint          `gorm:"index"`
	Action      JournalAction `gorm:"size:20;not null"`
	Description string        `gorm:"size:255"`
	CreatedAt   time.Time
}
