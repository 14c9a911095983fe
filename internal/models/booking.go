package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Client-facing code used in manage/cancel/reschedule links.
	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`

	BusinessID uint     `gorm:"index" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StaffID *uint  `gorm:"index" json:"staff_id"`
	Staff   *Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff,omitempty"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	// Denormalized so the active-booking uniqueness constraint can live on
	// this table alone.
	ClientEmail string `gorm:"size:100;index" json:"client_email"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Amount        float64 `json:"amount"`
	PaymentStatus string  `gorm:"size:20;default:'unpaid'" json:"payment_status"`
	Source        string  `gorm:"size:20;default:'online'" json:"source"`

	// Explicit reschedule accounting; never inferred from timestamps.
	RescheduleCount int    `gorm:"default:0" json:"reschedule_count"`
	UpdatedBy       string `gorm:"size:20;default:'system'" json:"updated_by"`

	CancelledBy *string    `gorm:"size:20" json:"cancelled_by,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Notes string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
