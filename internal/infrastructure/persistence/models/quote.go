package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
)

// QuoteModel is the persistence model for the Quote aggregate.
// The priced request and the pricing breakdown are stored flat so that quotes
// can be filtered by service type, status and price.
type QuoteModel struct {
	AggregateColumns
	QuoteNumber  string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ContactName  string    `gorm:"type:varchar(200);not null"`
	ContactEmail string    `gorm:"type:varchar(200);not null"`
	ContactPhone string    `gorm:"type:varchar(50)"`

	ServiceType        pricing.ServiceType  `gorm:"type:varchar(20);not null;index"`
	PropertyType       pricing.PropertyType `gorm:"type:varchar(20);not null"`
	Frequency          pricing.Frequency    `gorm:"type:varchar(20);not null"`
	DistanceKm         decimal.Decimal      `gorm:"type:decimal(10,2);not null;default:0"`
	Bedrooms           int                  `gorm:"not null;default:0"`
	Bathrooms          int                  `gorm:"not null;default:0"`
	Floors             int                  `gorm:"not null;default:0"`
	HasElevator        bool                 `gorm:"not null;default:false"`
	ServiceDate        time.Time            `gorm:"not null"`
	Attributes         string               `gorm:"type:jsonb;not null;default:'{}'"`
	Address            string               `gorm:"type:text;not null"`
	DestinationAddress string               `gorm:"type:text"`
	Notes              string               `gorm:"type:text"`

	Currency        string          `gorm:"type:varchar(3);not null"`
	BasePrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAdjustment decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinimumApplied  bool            `gorm:"not null;default:false"`
	AdjustmentsJSON string          `gorm:"column:adjustments;type:jsonb;not null;default:'[]'"`
	Status          quote.Status    `gorm:"type:varchar(20);not null;index"`
	ExpiresAt       time.Time       `gorm:"not null;index"`
	AcceptedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote
func (m *QuoteModel) ToDomain() *quote.Quote {
	adjustments := make([]pricing.AppliedAdjustment, 0)
	if m.AdjustmentsJSON != "" {
		_ = json.Unmarshal([]byte(m.AdjustmentsJSON), &adjustments)
	}

	return &quote.Quote{
		BaseAggregateRoot: m.Aggregate(),
		QuoteNumber:       m.QuoteNumber,
		CustomerID:        m.CustomerID,
		Contact: quote.Contact{
			Name:  m.ContactName,
			Email: m.ContactEmail,
			Phone: m.ContactPhone,
		},
		Request: quote.ServiceRequest{
			Context: pricing.Context{
				ServiceType:  m.ServiceType,
				PropertyType: m.PropertyType,
				Frequency:    m.Frequency,
				DistanceKm:   m.DistanceKm,
				Bedrooms:     m.Bedrooms,
				Bathrooms:    m.Bathrooms,
				Floors:       m.Floors,
				HasElevator:  m.HasElevator,
				ServiceDate:  m.ServiceDate,
				Attributes:   m.Attributes,
			},
			Address:            m.Address,
			DestinationAddress: m.DestinationAddress,
			Notes:              m.Notes,
		},
		Pricing: pricing.Result{
			Currency:        m.Currency,
			BasePrice:       m.BasePrice,
			Adjustments:     adjustments,
			TotalAdjustment: m.TotalAdjustment,
			MinimumApplied:  m.MinimumApplied,
			FinalPrice:      m.FinalPrice,
		},
		Status:          m.Status,
		ExpiresAt:       m.ExpiresAt,
		AcceptedAt:      m.AcceptedAt,
		RejectedAt:      m.RejectedAt,
		RejectionReason: m.RejectionReason,
	}
}

// QuoteModelFromDomain creates a persistence model from a domain Quote
func QuoteModelFromDomain(q *quote.Quote) *QuoteModel {
	adjustments := q.Pricing.Adjustments
	if adjustments == nil {
		adjustments = []pricing.AppliedAdjustment{}
	}
	raw, _ := json.Marshal(adjustments)

	ctx := q.Request.Context.Normalize()
	m := &QuoteModel{
		QuoteNumber:        q.QuoteNumber,
		CustomerID:         q.CustomerID,
		ContactName:        q.Contact.Name,
		ContactEmail:       q.Contact.Email,
		ContactPhone:       q.Contact.Phone,
		ServiceType:        ctx.ServiceType,
		PropertyType:       ctx.PropertyType,
		Frequency:          ctx.Frequency,
		DistanceKm:         ctx.DistanceKm,
		Bedrooms:           ctx.Bedrooms,
		Bathrooms:          ctx.Bathrooms,
		Floors:             ctx.Floors,
		HasElevator:        ctx.HasElevator,
		ServiceDate:        ctx.ServiceDate,
		Attributes:         ctx.Attributes,
		Address:            q.Request.Address,
		DestinationAddress: q.Request.DestinationAddress,
		Notes:              q.Request.Notes,
		Currency:           q.Pricing.Currency,
		BasePrice:          q.Pricing.BasePrice,
		TotalAdjustment:    q.Pricing.TotalAdjustment,
		FinalPrice:         q.Pricing.FinalPrice,
		MinimumApplied:     q.Pricing.MinimumApplied,
		AdjustmentsJSON:    string(raw),
		Status:             q.Status,
		ExpiresAt:          q.ExpiresAt,
		AcceptedAt:         q.AcceptedAt,
		RejectedAt:         q.RejectedAt,
		RejectionReason:    q.RejectionReason,
	}
	m.setAggregate(q.BaseAggregateRoot)
	return m
}
