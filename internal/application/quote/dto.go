package quote

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	bookingapp "github.com/quotebook/backend/internal/application/booking"
	pricingapp "github.com/quotebook/backend/internal/application/pricing"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
)

// ServiceDetails is the priced part of a quote request
type ServiceDetails struct {
	ServiceType  string          `json:"service_type" binding:"required,service_type"`
	PropertyType string          `json:"property_type" binding:"required,oneof=apartment house townhouse office studio"`
	Frequency    string          `json:"frequency" binding:"omitempty,oneof=one_time weekly fortnightly monthly"`
	DistanceKm   decimal.Decimal `json:"distance_km" binding:"gte=0,lte=10000"`
	Bedrooms     int             `json:"bedrooms" binding:"min=0,max=50"`
	Bathrooms    int             `json:"bathrooms" binding:"min=0,max=50"`
	Floors       int             `json:"floors" binding:"min=0,max=200"`
	HasElevator  bool            `json:"has_elevator"`
	ServiceDate  *time.Time      `json:"service_date"`
	Attributes   json.RawMessage `json:"attributes"`
}

// Context converts the details into a pricing context
func (d ServiceDetails) Context() pricing.Context {
	ctx := pricing.Context{
		ServiceType:  pricing.ServiceType(d.ServiceType),
		PropertyType: pricing.PropertyType(d.PropertyType),
		Frequency:    pricing.Frequency(d.Frequency),
		DistanceKm:   d.DistanceKm,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Floors:       d.Floors,
		HasElevator:  d.HasElevator,
		Attributes:   string(d.Attributes),
	}
	if d.ServiceDate != nil {
		ctx.ServiceDate = *d.ServiceDate
	}
	return ctx.Normalize()
}

// EstimateRequest prices a service without storing anything
type EstimateRequest struct {
	ServiceDetails
}

// ContactRequest holds the requester's contact details
type ContactRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"required,email,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// SubmitQuoteRequest prices and stores a quote
type SubmitQuoteRequest struct {
	Contact            ContactRequest `json:"contact" binding:"required"`
	Service            ServiceDetails `json:"service" binding:"required"`
	Address            string         `json:"address" binding:"required,min=1,max=500"`
	DestinationAddress string         `json:"destination_address" binding:"max=500"`
	Notes              string         `json:"notes" binding:"max=2000"`
}

// AcceptQuoteRequest accepts a quote. ScheduledAt defaults to the requested
// service date.
type AcceptQuoteRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// RejectQuoteRequest rejects a quote
type RejectQuoteRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// QuoteListFilter represents filter options for the quote list
type QuoteListFilter struct {
	Status      string `form:"status" binding:"omitempty,oneof=pending accepted rejected expired"`
	ServiceType string `form:"service_type" binding:"omitempty,service_type"`
	CustomerID  string `form:"customer_id" binding:"omitempty,uuid"`
	Search      string `form:"search"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// EstimateResponse is the result of an estimate
type EstimateResponse struct {
	ServiceType string                    `json:"service_type"`
	Pricing     pricingapp.PriceBreakdown `json:"pricing"`
}

// ContactResponse is the contact snapshot on a quote
type ContactResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ServiceResponse is the requested service on a quote
type ServiceResponse struct {
	ServiceType        string          `json:"service_type"`
	PropertyType       string          `json:"property_type"`
	Frequency          string          `json:"frequency"`
	DistanceKm         decimal.Decimal `json:"distance_km"`
	Bedrooms           int             `json:"bedrooms"`
	Bathrooms          int             `json:"bathrooms"`
	Floors             int             `json:"floors"`
	HasElevator        bool            `json:"has_elevator"`
	ServiceDate        *time.Time      `json:"service_date,omitempty"`
	Attributes         json.RawMessage `json:"attributes,omitempty"`
	Address            string          `json:"address"`
	DestinationAddress string          `json:"destination_address,omitempty"`
	Notes              string          `json:"notes"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID              uuid.UUID                 `json:"id"`
	QuoteNumber     string                    `json:"quote_number"`
	CustomerID      uuid.UUID                 `json:"customer_id"`
	Contact         ContactResponse           `json:"contact"`
	Service         ServiceResponse           `json:"service"`
	Pricing         pricingapp.PriceBreakdown `json:"pricing"`
	Status          string                    `json:"status"`
	ExpiresAt       time.Time                 `json:"expires_at"`
	AcceptedAt      *time.Time                `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time                `json:"rejected_at,omitempty"`
	RejectionReason string                    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
	Version         int                       `json:"version"`
}

// AcceptQuoteResponse is the accepted quote and the booking created from it
type AcceptQuoteResponse struct {
	Quote   QuoteResponse              `json:"quote"`
	Booking bookingapp.BookingResponse `json:"booking"`
}

// ToQuoteResponse converts a domain quote
func ToQuoteResponse(q *quote.Quote) QuoteResponse {
	pctx := q.Request.Context
	service := ServiceResponse{
		ServiceType:        string(pctx.ServiceType),
		PropertyType:       string(pctx.PropertyType),
		Frequency:          string(pctx.Frequency),
		DistanceKm:         pctx.DistanceKm,
		Bedrooms:           pctx.Bedrooms,
		Bathrooms:          pctx.Bathrooms,
		Floors:             pctx.Floors,
		HasElevator:        pctx.HasElevator,
		Address:            q.Request.Address,
		DestinationAddress: q.Request.DestinationAddress,
		Notes:              q.Request.Notes,
	}
	if !pctx.ServiceDate.IsZero() {
		date := pctx.ServiceDate
		service.ServiceDate = &date
	}
	if pctx.Attributes != "" && pctx.Attributes != "{}" {
		service.Attributes = json.RawMessage(pctx.Attributes)
	}

	return QuoteResponse{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		CustomerID:  q.CustomerID,
		Contact: ContactResponse{
			Name:  q.Contact.Name,
			Email: q.Contact.Email,
			Phone: q.Contact.Phone,
		},
		Service:         service,
		Pricing:         pricingapp.ToPriceBreakdown(q.Pricing),
		Status:          string(q.Status),
		ExpiresAt:       q.ExpiresAt,
		AcceptedAt:      q.AcceptedAt,
		RejectedAt:      q.RejectedAt,
		RejectionReason: q.RejectionReason,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
		Version:         q.Version,
	}
}

// ToQuoteResponses converts a slice of quotes
func ToQuoteResponses(quotes []quote.Quote) []QuoteResponse {
	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses
}
