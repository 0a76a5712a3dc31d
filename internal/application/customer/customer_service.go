package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/customer"
	"github.com/quotebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   customer.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	c, err := customer.NewCustomer(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if req.PreferredChannel != "" {
		if err := c.SetPreferredChannel(customer.ContactChannel(req.PreferredChannel)); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		if err := c.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		c.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, c)

	response := ToCustomerResponse(c)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(c)
	return &response, nil
}

// List retrieves customers with search and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Email != nil || req.Phone != nil {
		name, email, phone := c.Name, c.Email, c.Phone
		if req.Name != nil {
			name = *req.Name
		}
		if req.Email != nil {
			newEmail := strings.ToLower(strings.TrimSpace(*req.Email))
			if newEmail != c.Email {
				exists, err := s.customerRepo.ExistsByEmail(ctx, newEmail)
				if err != nil {
					return nil, err
				}
				if exists {
					return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
				}
			}
			email = newEmail
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		// Channel first when switching to email so that clearing the phone is allowed
		if req.PreferredChannel != nil && customer.ContactChannel(*req.PreferredChannel) == customer.ChannelEmail {
			if err := c.SetPreferredChannel(customer.ChannelEmail); err != nil {
				return nil, err
			}
		}
		if err := c.Update(name, email, phone); err != nil {
			return nil, err
		}
	}

	if req.PreferredChannel != nil && customer.ContactChannel(*req.PreferredChannel) != c.PreferredChannel {
		if err := c.SetPreferredChannel(customer.ContactChannel(*req.PreferredChannel)); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := c.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		c.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, c)

	response := ToCustomerResponse(c)
	return &response, nil
}

// Delete deletes a customer
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, id)
}

// FindOrCreate returns the customer registered under email, creating one from
// the contact details when none exists. A missing phone on an existing
// customer is filled in.
func (s *CustomerService) FindOrCreate(ctx context.Context, name, email, phone string) (*customer.Customer, error) {
	existing, err := s.customerRepo.FindByEmail(ctx, email)
	if err == nil {
		if existing.Phone == "" && strings.TrimSpace(phone) != "" {
			if err := existing.Update(existing.Name, existing.Email, phone); err != nil {
				return nil, err
			}
			if err := s.customerRepo.Save(ctx, existing); err != nil {
				return nil, err
			}
			s.publishDomainEvents(ctx, existing)
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c, err := customer.NewCustomer(name, email, phone)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// Lost a race with a concurrent submission for the same email
			return s.customerRepo.FindByEmail(ctx, email)
		}
		return nil, err
	}
	s.publishDomainEvents(ctx, c)

	s.logger.Info("Customer created from quote request", zap.String("customer_id", c.ID.String()))
	return c, nil
}

func (s *CustomerService) publishDomainEvents(ctx context.Context, c *customer.Customer) {
	if err := shared.PublishPending(ctx, s.eventPublisher, c); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
