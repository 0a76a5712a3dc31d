package customer

import (
	"regexp"
	"strings"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
)

// ContactChannel is how a customer prefers to be notified
type ContactChannel string

const (
	ChannelEmail    ContactChannel = "email"
	ChannelSMS      ContactChannel = "sms"
	ChannelWhatsApp ContactChannel = "whatsapp"
)

// IsValid reports whether the channel is known
func (c ContactChannel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Customer is a person who requests quotes and books services
type Customer struct {
	shared.BaseAggregateRoot
	Name             string
	Email            string
	Phone            string
	PreferredChannel ContactChannel
	Address          string
	Notes            string
}

// NewCustomer creates a new customer. Email is stored lowercased.
func NewCustomer(name, email, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	phone = strings.TrimSpace(phone)

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}

	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
		PreferredChannel:  ChannelEmail,
	}

	c.AddDomainEvent(NewCustomerCreatedEvent(c))

	return c, nil
}

// Update updates the customer's contact details
func (c *Customer) Update(name, email, phone string) error {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	phone = strings.TrimSpace(phone)

	if err := validateName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if phone == "" && c.PreferredChannel != ChannelEmail {
		return shared.NewDomainError("PHONE_REQUIRED", "Phone number is required for "+string(c.PreferredChannel)+" notifications")
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetPreferredChannel sets the notification channel. SMS and WhatsApp need a phone number.
func (c *Customer) SetPreferredChannel(channel ContactChannel) error {
	if !channel.IsValid() {
		return shared.NewDomainError("INVALID_CHANNEL", "Channel must be email, sms or whatsapp")
	}
	if channel != ChannelEmail && c.Phone == "" {
		return shared.NewDomainError("PHONE_REQUIRED", "Phone number is required for "+string(channel)+" notifications")
	}

	c.PreferredChannel = channel
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the customer's address
func (c *Customer) SetAddress(address string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Address = strings.TrimSpace(address)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the customer's notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Recipient returns the address for the customer's preferred channel
func (c *Customer) Recipient() string {
	if c.PreferredChannel == ChannelEmail || c.Phone == "" {
		return c.Email
	}
	return c.Phone
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
