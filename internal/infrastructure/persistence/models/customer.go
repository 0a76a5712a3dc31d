package models

import "github.com/quotebook/backend/internal/domain/customer"

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	AggregateColumns
	Name             string                  `gorm:"type:varchar(200);not null"`
	Email            string                  `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone            string                  `gorm:"type:varchar(50)"`
	PreferredChannel customer.ContactChannel `gorm:"type:varchar(20);not null;default:'email'"`
	Address          string                  `gorm:"type:text"`
	Notes            string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		BaseAggregateRoot: m.Aggregate(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		PreferredChannel:  m.PreferredChannel,
		Address:           m.Address,
		Notes:             m.Notes,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		PreferredChannel: c.PreferredChannel,
		Address:          c.Address,
		Notes:            c.Notes,
	}
	m.setAggregate(c.BaseAggregateRoot)
	return m
}
