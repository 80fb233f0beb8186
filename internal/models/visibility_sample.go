package models

import (
	"time"

	"gorm.io/gorm"
)

// VisibilitySample records how much of one window was visible at one tick.
// All samples of a tick share the same Timestamp.
type VisibilitySample struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Timestamp      time.Time      `gorm:"not null;index" json:"timestamp"`
	WindowID       uint64         `gorm:"not null;index" json:"window_id"`
	AppName        string         `gorm:"not null;index" json:"app_name"`
	WindowTitle    string         `gorm:"not null" json:"window_title"`
	PID            int            `gorm:"not null;default:0" json:"pid"`
	Layer          int            `gorm:"not null;default:0" json:"layer"`
	VisiblePercent float64        `gorm:"not null" json:"visible_percent"`
	ChangedPixels  int            `gorm:"not null;default:0" json:"changed_pixels"`
	Duration       int64          `gorm:"not null;default:0" json:"duration"` // Duration in seconds
	DisplayServer  string         `gorm:"not null" json:"display_server"`     // "x11" or "wayland"
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// VisibleSeconds is the sample duration weighted by its visible share.
func (s VisibilitySample) VisibleSeconds() float64 {
	return float64(s.Duration) * s.VisiblePercent / 100
}

type AppVisibility struct {
	AppName        string  `json:"app_name"`
	VisibleSeconds float64 `json:"visible_seconds"`
	VisibleMinutes float64 `json:"visible_minutes"`
	VisibleHours   float64 `json:"visible_hours"`
	AvgPercent     float64 `json:"avg_visible_percent"`
	SampleCount    int     `json:"sample_count"`
	Percentage     float64 `json:"percentage,omitempty"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Report struct {
	Period         ReportPeriod    `json:"period"`
	Apps           []AppVisibility `json:"apps"`
	VisibleSeconds float64         `json:"visible_seconds"`
	VisibleMinutes float64         `json:"visible_minutes"`
	VisibleHours   float64         `json:"visible_hours"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
