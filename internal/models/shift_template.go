package models

import "time"

// ShiftTemplate is a recurring weekly working window for one staff member.
// A staff member may have several templates on the same weekday (split
// shifts); overlapping windows are merged at availability time.
type ShiftTemplate struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index" json:"staff_id"`

	Weekday   int    `json:"weekday"` // 0 = Sunday ... 6 = Saturday
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
