package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	bookingDomain "github.com/sportsvenue/service-payment/internal/domain/booking"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingModel is the GORM persistence model for the bookings table.
type BookingModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement:false"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time       `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingRepositoryImpl is the GORM-based implementation of BookingRepository.
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// NewBookingRepository creates a new GORM-based booking repository.
func NewBookingRepository(db *gorm.DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

// FindByID retrieves a booking by its id.
func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return toBookingDomain(&model), nil
}

// Save inserts a booking, ignoring ids that are already present.
func (r *BookingRepositoryImpl) Save(ctx context.Context, booking *bookingDomain.Booking) error {
	model := toBookingModel(booking)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(model).Error
}

// Update persists status changes with optimistic locking. The total amount is never written.
func (r *BookingRepositoryImpl) Update(ctx context.Context, booking *bookingDomain.Booking) error {
	previousVersion := booking.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", booking.ID(), previousVersion).
		Updates(map[string]any{
			"status":     string(booking.Status()),
			"version":    booking.Version(),
			"updated_at": booking.UpdatedAt(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domainerr.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// toBookingDomain maps a BookingModel to the domain Booking.
func toBookingDomain(model *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstitute(
		model.ID,
		model.TotalAmount,
		bookingDomain.Status(model.Status),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// toBookingModel maps a domain Booking to a BookingModel for persistence.
func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:          b.ID(),
		TotalAmount: b.TotalAmount(),
		Status:      string(b.Status()),
		Version:     b.Version(),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
}
