package models

import "time"

// WaitlistEntry is one signup. Rows are never updated or deleted, so there is no
// updated_at/deleted_at pair from gorm.Model.
type WaitlistEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:ix_waitlist_entries_email" json:"email"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}
