package models

import (
	"time"
)

const (
	PrinterStatusOnline  = "online"
	PrinterStatusOffline = "offline"
)

type Printer struct {
	ID            uint       `gorm:"primaryKey"`
	Name          string     `gorm:"not null"`
	Model         string     `gorm:"column:model"`
	Status        string     `gorm:"default:offline;column:status"`
	UniqueID      string     `gorm:"uniqueIndex;not null;column:unique_id"`
	IsActive      bool       `gorm:"default:true;column:is_active"`
	LastPrintTime *time.Time `gorm:"column:last_print_time"`
	CompanyID     *uint      `gorm:"column:company_id"`
	LocationID    *uint      `gorm:"column:location_id"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime;column:updated_at"`
}

func (Printer) TableName() string {
	return "printer"
}
