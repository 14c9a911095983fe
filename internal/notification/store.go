package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotwise/scheduler-api/internal/models"
)

// Rows older than this are considered stale and excluded from the inbox.
const defaultExpiry = 30 * 24 * time.Hour

// Store persists one row per emitted intent so the operator inbox
// survives reloads and failed deliveries.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Save(ctx context.Context, in Intent) (*models.Notification, error) {
	payload, err := json.Marshal(map[string]any{
		"client_name":  in.ClientName,
		"cancelled_by": in.CancelledBy,
		"new_start":    in.NewStart,
		"review_link":  in.ReviewLink,
		"rating":       in.Rating,
		"comment":      in.Comment,
	})
	if err != nil {
		return nil, err
	}

	expires := time.Now().Add(defaultExpiry)
	row := models.Notification{
		PublicID:   uuid.NewString(),
		BusinessID: in.BusinessID,
		BookingID:  in.BookingID,
		Type:       string(in.Type),
		Recipient:  string(in.Recipient),
		Payload:    string(payload),
		ExpiresAt:  &expires,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) ListUnacknowledged(ctx context.Context, businessID uint) ([]models.Notification, error) {
	var rows []models.Notification
	if err := s.db.WithContext(ctx).
		Where(
			"business_id = ? AND acknowledged = false AND (expires_at IS NULL OR expires_at > ?)",
			businessID, time.Now(),
		).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Acknowledge flips the dismissed flag for one row, scoped to the
// business so one operator cannot clear another's inbox.
func (s *Store) Acknowledge(ctx context.Context, businessID uint, publicID string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("business_id = ? AND public_id = ?", businessID, publicID).
		Update("acknowledged", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
