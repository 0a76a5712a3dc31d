package pricing

import (
	"github.com/shopspring/decimal"
)

// ServiceRates are the base price inputs for one service type
type ServiceRates struct {
	BaseRate        decimal.Decimal `json:"base_rate"`
	PerKmRate       decimal.Decimal `json:"per_km_rate"`
	PerBedroomRate  decimal.Decimal `json:"per_bedroom_rate"`
	PerBathroomRate decimal.Decimal `json:"per_bathroom_rate"`
	MinimumPrice    decimal.Decimal `json:"minimum_price"`
}

// RateCard holds the base rates for every service
type RateCard struct {
	Currency string       `json:"currency"`
	Moving   ServiceRates `json:"moving"`
	Cleaning ServiceRates `json:"cleaning"`
}

// RatesFor returns the rates for a service type
func (r RateCard) RatesFor(serviceType ServiceType) ServiceRates {
	if serviceType == ServiceTypeCleaning {
		return r.Cleaning
	}
	return r.Moving
}

// BasePrice computes the price before rule adjustments:
// base + perKm*distance + perBedroom*bedrooms + perBathroom*bathrooms
func (r RateCard) BasePrice(ctx Context) decimal.Decimal {
	rates := r.RatesFor(ctx.ServiceType)

	price := rates.BaseRate
	price = price.Add(rates.PerKmRate.Mul(ctx.DistanceKm))
	price = price.Add(rates.PerBedroomRate.Mul(decimal.NewFromInt(int64(ctx.Bedrooms))))
	price = price.Add(rates.PerBathroomRate.Mul(decimal.NewFromInt(int64(ctx.Bathrooms))))

	return price.Round(2)
}
