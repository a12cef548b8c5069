package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey"`
	Username     string         `gorm:"uniqueIndex;not null"`
	Password     string         `gorm:"not null;column:password"`
	Name         string         `gorm:"not null;column:name"`
	Email        string         `gorm:"column:email"`
	APIKey       string         `gorm:"uniqueIndex;column:api_key"`
	IsAdmin      bool           `gorm:"default:false;column:is_admin"`
	CompanyID    *uint          `gorm:"column:company_id"`
	LocationID   *uint          `gorm:"column:location_id"`
	RefreshToken string         `gorm:"type:text;column:refresh_token"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime;column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index;column:deleted_at"`
}

func (User) TableName() string {
	return "users"
}
