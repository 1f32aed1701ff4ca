package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	paymentDomain "github.com/sportsvenue/service-payment/internal/domain/payment"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
	"gorm.io/gorm"
)

// PaymentModel is the GORM persistence model for the payments table.
type PaymentModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	BookingID     int64           `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method        string          `gorm:"type:varchar(50);not null;default:''"`
	Status        string          `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	PaymentDate   time.Time       `gorm:"type:timestamptz;not null"`
	PaymentMethod string          `gorm:"type:varchar(50);not null;default:''"`
	TransactionID *string         `gorm:"type:varchar(255)"`
	CreatedAt     time.Time       `gorm:"type:timestamptz;not null;default:now()"`

	Booking *BookingModel `gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentRepositoryImpl is the GORM-based implementation of PaymentRepository.
type PaymentRepositoryImpl struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new GORM-based payment repository.
func NewPaymentRepository(db *gorm.DB) *PaymentRepositoryImpl {
	return &PaymentRepositoryImpl{db: db}
}

// Save inserts a payment and returns it with the id assigned by the database.
func (r *PaymentRepositoryImpl) Save(ctx context.Context, payment *paymentDomain.Payment) (*paymentDomain.Payment, error) {
	model := toPaymentModel(payment)
	if err := r.db.WithContext(ctx).Omit("Booking").Create(model).Error; err != nil {
		return nil, err
	}
	return toPaymentDomain(model), nil
}

// FindByBookingID returns the latest payment recorded for the booking.
func (r *PaymentRepositoryImpl) FindByBookingID(ctx context.Context, bookingID int64) (*paymentDomain.Payment, error) {
	var model PaymentModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.NewNotFoundError("Payment", strconv.FormatInt(bookingID, 10))
		}
		return nil, err
	}
	return toPaymentDomain(&model), nil
}

// toPaymentDomain maps a PaymentModel to the domain Payment.
func toPaymentDomain(model *PaymentModel) *paymentDomain.Payment {
	var txID string
	if model.TransactionID != nil {
		txID = *model.TransactionID
	}
	return paymentDomain.Reconstitute(
		model.ID,
		model.BookingID,
		model.Amount,
		model.Method,
		paymentDomain.Status(model.Status),
		model.PaymentDate,
		model.PaymentMethod,
		txID,
		model.CreatedAt,
	)
}

// toPaymentModel maps a domain Payment to a PaymentModel for persistence.
func toPaymentModel(p *paymentDomain.Payment) *PaymentModel {
	model := &PaymentModel{
		ID:            p.ID(),
		BookingID:     p.BookingID(),
		Amount:        p.Amount(),
		Method:        p.Method(),
		Status:        string(p.Status()),
		PaymentDate:   p.PaymentDate(),
		PaymentMethod: p.PaymentMethod(),
		CreatedAt:     p.CreatedAt(),
	}
	if p.HasTransactionID() {
		txID := p.TransactionID()
		model.TransactionID = &txID
	}
	return model
}
