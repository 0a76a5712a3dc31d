package notification

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

// Template names, one per notified event
const (
	TemplateQuoteRequested    = "quote_requested"
	TemplateQuoteRecalculated = "quote_recalculated"
	TemplateQuoteAccepted     = "quote_accepted"
	TemplateQuoteRejected     = "quote_rejected"
	TemplateQuoteExpired      = "quote_expired"
	TemplateBookingCreated    = "booking_created"
	TemplateBookingConfirmed  = "booking_confirmed"
	TemplateBookingCompleted  = "booking_completed"
	TemplateBookingCancelled  = "booking_cancelled"
	TemplateBookingMoved      = "booking_rescheduled"
	TemplatePaymentUpdated    = "booking_payment_updated"
)

// MessageData is the data available to every template
type MessageData struct {
	CustomerName  string
	Number        string
	ServiceType   string
	Amount        decimal.Decimal
	PreviousPrice decimal.Decimal
	Deposit       decimal.Decimal
	BalanceDue    decimal.Decimal
	Currency      string
	ExpiresAt     time.Time
	ScheduledAt   time.Time
	PreviousDate  time.Time
	PaymentStatus string
	Reason        string
}

type messageTemplate struct {
	subject string
	body    string
}

var messageTemplates = map[string]messageTemplate{
	TemplateQuoteRequested: {
		subject: "Your {{.ServiceType}} quote {{.Number}}",
		body: "Hi {{.CustomerName}}, your {{.ServiceType}} quote {{.Number}} is {{money .Amount}} {{.Currency}}. " +
			"It is valid until {{date .ExpiresAt}}.",
	},
	TemplateQuoteRecalculated: {
		subject: "Updated price for quote {{.Number}}",
		body: "Hi {{.CustomerName}}, quote {{.Number}} has been updated from {{money .PreviousPrice}} " +
			"to {{money .Amount}} {{.Currency}}.",
	},
	TemplateQuoteAccepted: {
		subject: "Quote {{.Number}} accepted",
		body:    "Hi {{.CustomerName}}, thanks for accepting quote {{.Number}} for {{money .Amount}} {{.Currency}}.",
	},
	TemplateQuoteRejected: {
		subject: "Quote {{.Number}} declined",
		body: "Hi {{.CustomerName}}, quote {{.Number}} has been declined." +
			"{{if .Reason}} Reason: {{.Reason}}.{{end}}",
	},
	TemplateQuoteExpired: {
		subject: "Quote {{.Number}} has expired",
		body:    "Hi {{.CustomerName}}, quote {{.Number}} has expired. Request a new quote any time.",
	},
	TemplateBookingCreated: {
		subject: "Booking {{.Number}} received",
		body: "Hi {{.CustomerName}}, your {{.ServiceType}} booking {{.Number}} is scheduled for {{datetime .ScheduledAt}}. " +
			"Total {{money .Amount}} {{.Currency}}, deposit {{money .Deposit}} {{.Currency}}.",
	},
	TemplateBookingConfirmed: {
		subject: "Booking {{.Number}} confirmed",
		body:    "Hi {{.CustomerName}}, booking {{.Number}} is confirmed for {{datetime .ScheduledAt}}.",
	},
	TemplateBookingCompleted: {
		subject: "Booking {{.Number}} completed",
		body:    "Hi {{.CustomerName}}, booking {{.Number}} is complete. Thank you for your business.",
	},
	TemplateBookingCancelled: {
		subject: "Booking {{.Number}} cancelled",
		body: "Hi {{.CustomerName}}, booking {{.Number}} has been cancelled." +
			"{{if .Reason}} Reason: {{.Reason}}.{{end}}",
	},
	TemplateBookingMoved: {
		subject: "Booking {{.Number}} rescheduled",
		body: "Hi {{.CustomerName}}, booking {{.Number}} has moved from {{datetime .PreviousDate}} " +
			"to {{datetime .ScheduledAt}}.",
	},
	TemplatePaymentUpdated: {
		subject: "Payment update for booking {{.Number}}",
		body: "Hi {{.CustomerName}}, the payment status of booking {{.Number}} is now {{label .PaymentStatus}}. " +
			"Balance due: {{money .BalanceDue}} {{.Currency}}.",
	},
}

var templateFuncs = template.FuncMap{
	"money":    func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":     func(t time.Time) string { return t.Format("2 Jan 2006") },
	"datetime": func(t time.Time) string { return t.Format("Mon 2 Jan 2006 15:04") },
	"label":    func(s string) string { return strings.ReplaceAll(s, "_", " ") },
}

// Renderer renders notification subjects and bodies
type Renderer struct {
	subjects map[string]*template.Template
	bodies   map[string]*template.Template
}

// NewRenderer parses the built-in templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		subjects: make(map[string]*template.Template, len(messageTemplates)),
		bodies:   make(map[string]*template.Template, len(messageTemplates)),
	}
	for name, tmpl := range messageTemplates {
		subject, err := template.New(name + ".subject").Funcs(templateFuncs).Option("missingkey=error").Parse(tmpl.subject)
		if err != nil {
			return nil, fmt.Errorf("parse %s subject: %w", name, err)
		}
		body, err := template.New(name + ".body").Funcs(templateFuncs).Option("missingkey=error").Parse(tmpl.body)
		if err != nil {
			return nil, fmt.Errorf("parse %s body: %w", name, err)
		}
		r.subjects[name] = subject
		r.bodies[name] = body
	}
	return r, nil
}

// Render returns the subject and body of the named template
func (r *Renderer) Render(name string, data MessageData) (string, string, error) {
	subject, ok := r.subjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown notification template %q", name)
	}

	var subjectBuf, bodyBuf bytes.Buffer
	if err := subject.Execute(&subjectBuf, data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := r.bodies[name].Execute(&bodyBuf, data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", name, err)
	}
	return subjectBuf.String(), bodyBuf.String(), nil
}
