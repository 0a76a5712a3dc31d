package pricing

// ServiceType is the kind of service being quoted
type ServiceType string

const (
	ServiceTypeMoving   ServiceType = "moving"
	ServiceTypeCleaning ServiceType = "cleaning"
)

// IsValid reports whether the service type is known
func (s ServiceType) IsValid() bool {
	return s == ServiceTypeMoving || s == ServiceTypeCleaning
}

// String returns the string representation of the service type
func (s ServiceType) String() string {
	return string(s)
}

// PropertyType is the kind of property the service is performed at
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeTownhouse PropertyType = "townhouse"
	PropertyTypeOffice    PropertyType = "office"
	PropertyTypeStudio    PropertyType = "studio"
)

// IsValid reports whether the property type is known
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeTownhouse, PropertyTypeOffice, PropertyTypeStudio:
		return true
	}
	return false
}

// Frequency is how often a service recurs
type Frequency string

const (
	FrequencyOneTime     Frequency = "one_time"
	FrequencyWeekly      Frequency = "weekly"
	FrequencyFortnightly Frequency = "fortnightly"
	FrequencyMonthly     Frequency = "monthly"
)

// IsValid reports whether the frequency is known
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyOneTime, FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly:
		return true
	}
	return false
}
