package models

import (
	"time"
)

type Location struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	CompanyID uint      `gorm:"index;column:company_id"`
	IsActive  bool      `gorm:"default:true;column:is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (Location) TableName() string {
	return "location"
}
