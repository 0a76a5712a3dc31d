package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// BookingModel is the persistence model for the Booking aggregate.
type BookingModel struct {
	AggregateColumns
	BookingNumber      string                `gorm:"type:varchar(32);not null;uniqueIndex"`
	QuoteID            uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	ServiceType        pricing.ServiceType   `gorm:"type:varchar(20);not null;index"`
	ScheduledAt        time.Time             `gorm:"not null;index"`
	ServiceAddress     string                `gorm:"type:text;not null"`
	DestinationAddress string                `gorm:"type:text"`
	TotalAmount        decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	DepositAmount      decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Currency           string                `gorm:"type:varchar(3);not null"`
	Status             booking.Status        `gorm:"type:varchar(20);not null;index"`
	PaymentStatus      booking.PaymentStatus `gorm:"type:varchar(20);not null"`
	Notes              string                `gorm:"type:text"`
	CancellationReason string                `gorm:"type:text"`
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking
func (m *BookingModel) ToDomain() *booking.Booking {
	return &booking.Booking{
		BaseAggregateRoot:  m.Aggregate(),
		BookingNumber:      m.BookingNumber,
		QuoteID:            m.QuoteID,
		CustomerID:         m.CustomerID,
		ServiceType:        m.ServiceType,
		ScheduledAt:        m.ScheduledAt,
		ServiceAddress:     m.ServiceAddress,
		DestinationAddress: m.DestinationAddress,
		TotalAmount:        m.TotalAmount,
		DepositAmount:      m.DepositAmount,
		Currency:           m.Currency,
		Status:             m.Status,
		PaymentStatus:      m.PaymentStatus,
		Notes:              m.Notes,
		CancellationReason: m.CancellationReason,
		ConfirmedAt:        m.ConfirmedAt,
		CompletedAt:        m.CompletedAt,
		CancelledAt:        m.CancelledAt,
	}
}

// BookingModelFromDomain creates a persistence model from a domain Booking
func BookingModelFromDomain(b *booking.Booking) *BookingModel {
	m := &BookingModel{
		BookingNumber:      b.BookingNumber,
		QuoteID:            b.QuoteID,
		CustomerID:         b.CustomerID,
		ServiceType:        b.ServiceType,
		ScheduledAt:        b.ScheduledAt,
		ServiceAddress:     b.ServiceAddress,
		DestinationAddress: b.DestinationAddress,
		TotalAmount:        b.TotalAmount,
		DepositAmount:      b.DepositAmount,
		Currency:           b.Currency,
		Status:             b.Status,
		PaymentStatus:      b.PaymentStatus,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		ConfirmedAt:        b.ConfirmedAt,
		CompletedAt:        b.CompletedAt,
		CancelledAt:        b.CancelledAt,
	}
	m.setAggregate(b.BaseAggregateRoot)
	return m
}
