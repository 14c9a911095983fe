package models

import "time"

// Notification is the persisted trail of every intent the engine emitted.
// Rows survive delivery failures and page reloads; the operator dismisses
// them via the acknowledged flag instead of client-side state.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PublicID   string `gorm:"size:36;uniqueIndex;not null" json:"public_id"`
	BusinessID uint   `gorm:"index" json:"business_id"`
	BookingID  *uint  `json:"booking_id,omitempty"`

	Type      string `gorm:"size:30;not null" json:"type"`
	Recipient string `gorm:"size:20;not null" json:"recipient"` // business | customer
	Payload   string `gorm:"size:1024" json:"payload"`

	Acknowledged bool       `gorm:"default:false;index" json:"acknowledged"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
