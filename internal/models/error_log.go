package models

import (
	"time"

	"gorm.io/gorm"
)

// Tick phases an ErrorLog can originate from
const (
	PhaseObserve   = "observe"
	PhaseStore     = "store"
	PhaseVisualize = "visualize"
)

// ErrorLog records a failed tracker tick. Failures never stop tracking.
type ErrorLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Phase     string         `gorm:"not null;default:'observe';index" json:"phase"`
	ErrorMsg  string         `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
