package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"

	duplicateActiveIndex = "idx_bookings_active_client_service"
	staffOverlapExcl     = "bookings_staff_no_overlap"
)

// translateConstraint maps the storage-level guarantees onto the domain
// errors the advisory checks produce, so losers of a write race see the
// same error as callers caught by the pre-flight check.
func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == duplicateActiveIndex:
		return &domain.DuplicateActiveBookingError{}
	case pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == staffOverlapExcl:
		return &domain.SlotTakenError{}
	}

	return err
}
