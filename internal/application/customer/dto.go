package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/customer"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=200"`
	Email            string `json:"email" binding:"required,email,max=200"`
	Phone            string `json:"phone" binding:"max=50"`
	PreferredChannel string `json:"preferred_channel" binding:"omitempty,oneof=email sms whatsapp"`
	Address          string `json:"address" binding:"max=500"`
	Notes            string `json:"notes"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email            *string `json:"email" binding:"omitempty,email,max=200"`
	Phone            *string `json:"phone" binding:"omitempty,max=50"`
	PreferredChannel *string `json:"preferred_channel" binding:"omitempty,oneof=email sms whatsapp"`
	Address          *string `json:"address" binding:"omitempty,max=500"`
	Notes            *string `json:"notes"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	PreferredChannel string    `json:"preferred_channel"`
	Address          string    `json:"address"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int       `json:"version"`
}

// ToCustomerResponse converts a domain customer
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		PreferredChannel: string(c.PreferredChannel),
		Address:          c.Address,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []customer.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
