package models

import (
	"time"
)

const (
	JobStatusPending    = "pending"
	JobStatusReady      = "ready"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// IsTerminalJobStatus reports whether no further transitions are allowed.
func IsTerminalJobStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}

type PrintJob struct {
	ID           uint       `gorm:"primaryKey"`
	DocumentName string     `gorm:"not null;column:document_name"`
	DocumentURL  string     `gorm:"column:document_url"`
	PrinterID    uint       `gorm:"index;not null;column:printer_id"`
	UserID       uint       `gorm:"index;not null;column:user_id"`
	Status       string     `gorm:"default:pending;column:status"`
	Copies       int        `gorm:"default:1;column:copies"`
	Duplex       bool       `gorm:"default:false;column:duplex"`
	Orientation  string     `gorm:"default:portrait;column:orientation"`
	Payload      string     `gorm:"type:text;column:payload"`
	Error        string     `gorm:"type:text;column:error"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;column:created_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`

	Printer *Printer `gorm:"foreignKey:PrinterID"`
	User    *User    `gorm:"foreignKey:UserID"`
}

func (PrintJob) TableName() string {
	return "print_job"
}
