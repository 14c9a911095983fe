package models

import "time"

// AvailabilityOverride replaces the template-derived windows for a single
// date. At most one override per staff per date (unique index).
type AvailabilityOverride struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"uniqueIndex:idx_overrides_staff_date" json:"staff_id"`

	Date time.Time `gorm:"type:date;uniqueIndex:idx_overrides_staff_date" json:"date"`

	StartTime *string `gorm:"size:5" json:"start_time"`
	EndTime   *string `gorm:"size:5" json:"end_time"`

	IsAvailable bool `json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
