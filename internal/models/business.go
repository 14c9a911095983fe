package models

import "time"

type Business struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone string `gorm:"size:64" json:"timezone"`

	// Booking policy. Zero means "use the server default".
	MinLeadMinutes int `gorm:"default:120" json:"min_lead_minutes"`
	HorizonDays    int `gorm:"default:90" json:"horizon_days"`

	// Fallback working window for overrides that mark a date available
	// without stating hours. Empty means no fallback (the date stays closed).
	DefaultDayStart string `gorm:"size:5" json:"default_day_start"`
	DefaultDayEnd   string `gorm:"size:5" json:"default_day_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
