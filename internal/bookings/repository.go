package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aerobook/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransitionUpdate carries the audit fields recorded with a status transition
type TransitionUpdate struct {
	Actor  uuid.UUID
	At     time.Time
	Reason string
}

type Repository interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error)

	// TransitionStatus performs a guarded state transition: the row is only
	// updated when its current status equals from. A guard miss returns
	// IllegalTransitionError with the actual current status, so concurrent
	// double-cancels surface as errors rather than silent no-ops.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, upd TransitionUpdate) (*Booking, error)

	// MarkPaid records the payment collaborator's confirmation exactly once
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef, paymentMethod string) (*Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("BookedSeats").
		Preload("Passengers").
		First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)

	var totalCount int64
	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	var results []Booking
	err := baseQuery.
		Preload("BookedSeats").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return results, totalCount, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, upd TransitionUpdate) (*Booking, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": upd.At,
	}
	switch to {
	case StatusConfirmed:
		updates["confirmed_at"] = upd.At
		updates["confirmed_by"] = upd.Actor
	case StatusCancelled:
		updates["cancelled_at"] = upd.At
		updates["cancelled_by"] = upd.Actor
		if upd.Reason != "" {
			updates["cancellation_reason"] = upd.Reason
		}
	case StatusCompleted:
		updates["completed_at"] = upd.At
		updates["completed_by"] = upd.Actor
	}

	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("transition booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Guard miss: either the booking is gone or its status moved
		// underneath us. Report the actual state.
		current, err := r.GetBookingByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &apperrors.IllegalTransitionError{From: current.Status.String(), To: to.String()}
	}

	return r.GetBookingByID(ctx, id)
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef, paymentMethod string) (*Booking, error) {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND payment_status = ?", id, PaymentPending).
		Updates(map[string]interface{}{
			"payment_status": PaymentPaid,
			"payment_ref":    paymentRef,
			"payment_method": paymentMethod,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("mark booking paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		current, err := r.GetBookingByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &apperrors.IllegalTransitionError{
			From: current.Payment.String(),
			To:   PaymentPaid.String(),
		}
	}

	return r.GetBookingByID(ctx, id)
}
