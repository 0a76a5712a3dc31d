package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBookingRepository implements booking.BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

var _ booking.BookingRepository = (*GormBookingRepository)(nil)

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormBookingRepository) WithTx(tx *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: tx}
}

// FindByID finds a booking by its ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindByQuoteID finds the booking created from a quote
func (r *GormBookingRepository) FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).Where("quote_id = ?", quoteID).First(&model).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all bookings matching the filter
func (r *GormBookingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]booking.Booking, error) {
	var bookingModels []models.BookingModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BookingModel{}), filter)
	query = paginate(query, filter, BookingSortFields, "scheduled_at")
	if err := query.Find(&bookingModels).Error; err != nil {
		return nil, err
	}
	return toBookings(bookingModels), nil
}

// FindByCustomer finds the bookings of a customer
func (r *GormBookingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]booking.Booking, error) {
	var bookingModels []models.BookingModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BookingModel{}).Where("customer_id = ?", customerID), filter)
	query = paginate(query, filter, BookingSortFields, "scheduled_at")
	if err := query.Find(&bookingModels).Error; err != nil {
		return nil, err
	}
	return toBookings(bookingModels), nil
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	return saveVersioned(ctx, r.db, models.BookingModelFromDomain(b), b)
}

// Count counts bookings matching the filter
func (r *GormBookingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BookingModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByQuoteID checks if a booking was already created from the quote
func (r *GormBookingRepository) ExistsByQuoteID(ctx context.Context, quoteID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookingModel{}).
		Where("quote_id = ?", quoteID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormBookingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("booking_number ILIKE ? OR service_address ILIKE ?", search, search)
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if paymentStatus, ok := filterString(filter, "payment_status"); ok {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if serviceType, ok := filterString(filter, "service_type"); ok {
		query = query.Where("service_type = ?", serviceType)
	}
	if customerID, ok := filterString(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if from, ok := filterString(filter, "scheduled_from"); ok {
		query = query.Where("scheduled_at >= ?", from)
	}
	if to, ok := filterString(filter, "scheduled_to"); ok {
		query = query.Where("scheduled_at < ?", to)
	}
	return query
}

func toBookings(bookingModels []models.BookingModel) []booking.Booking {
	bookings := make([]booking.Booking, len(bookingModels))
	for i := range bookingModels {
		bookings[i] = *bookingModels[i].ToDomain()
	}
	return bookings
}
