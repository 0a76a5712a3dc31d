package persistence

import (
	"context"

	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/quote"
	"gorm.io/gorm"
)

// GormQuoteAcceptanceStore persists an accepted quote and the booking created
// from it in one transaction.
type GormQuoteAcceptanceStore struct {
	db *gorm.DB
}

// NewGormQuoteAcceptanceStore creates a new GormQuoteAcceptanceStore
func NewGormQuoteAcceptanceStore(db *gorm.DB) *GormQuoteAcceptanceStore {
	return &GormQuoteAcceptanceStore{db: db}
}

// SaveAcceptance saves the quote and inserts the booking, or neither
func (s *GormQuoteAcceptanceStore) SaveAcceptance(ctx context.Context, q *quote.Quote, b *booking.Booking) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewGormQuoteRepository(tx).Save(ctx, q); err != nil {
			return err
		}
		return NewGormBookingRepository(tx).Save(ctx, b)
	})
}
