package models

import (
	"time"

	"gorm.io/gorm"
)

type WakeEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Timestamp     time.Time      `gorm:"not null;index" json:"timestamp"`
	Room          string         `gorm:"not null;index" json:"room"`
	SessionType   string         `gorm:"not null" json:"session_type"` // "x11" or "wayland"
	IdleSeconds   int            `gorm:"not null;default:0" json:"idle_seconds"`
	ScreenOff     bool           `gorm:"not null;default:false" json:"screen_off"`
	IdleDegraded  bool           `gorm:"not null;default:false" json:"idle_degraded"`
	PowerDegraded bool           `gorm:"not null;default:false" json:"power_degraded"`
	Decision      string         `gorm:"not null;index" json:"decision"` // "ignore", "reset-idle-timer" or "wake"
	ActionError   string         `gorm:"default:''" json:"action_error,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type DecisionSummary struct {
	Decision   string  `json:"decision"`
	EventCount int     `json:"event_count"`
	Percentage float64 `json:"percentage,omitempty"`
}

type HistoryPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type History struct {
	Period      HistoryPeriod     `json:"period"`
	Decisions   []DecisionSummary `json:"decisions"`
	Recent      []*WakeEvent      `json:"recent"`
	TotalEvents int               `json:"total_events"`
	GeneratedAt time.Time         `json:"generated_at"`
}
