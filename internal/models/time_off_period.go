package models

import "time"

// TimeOffPeriod blocks a staff member completely for every date in
// [StartDate, EndDate]. It wins over overrides and shift templates.
type TimeOffPeriod struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index" json:"staff_id"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	AllDay bool   `gorm:"default:true" json:"all_day"`
	Reason string `gorm:"size:100" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
