package booking

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/richxcame/moto-showroom/internal/wizard"
	"github.com/richxcame/moto-showroom/pkg/security"
	"github.com/richxcame/moto-showroom/pkg/validation"
)

// Kind names a wizard. It is also the URL segment of its routes.
type Kind string

const (
	KindTestRide Kind = "test-rides"
	KindService  Kind = "service-bookings"
)

var ErrUnknownKind = errors.New("unknown booking kind")

// Clock returns the current time
type Clock func() time.Time

// maxMonthsAhead is how far ahead a date can be booked
const maxMonthsAhead = 2

const (
	msgDateRequired = "Please select a date"
	msgDatePast     = "Please select a date from today onwards"
	msgDateTooFar   = "Please select a date within the next 2 months"
	msgDateSunday   = "Service appointments are not available on Sundays"
	msgTime         = "Please select a time"
)

func name(s string) string    { return security.SanitizeText(s, 100) }
func text(s string) string    { return security.SanitizeMultiline(s, 2000) }
func short(s string) string   { return security.SanitizeText(s, 32) }
func upper(s string) string   { return strings.ToUpper(security.SanitizeText(s, 32)) }
func trimmed(s string) string { return strings.TrimSpace(s) }

func contactFields() []wizard.Field {
	return []wizard.Field{
		{Name: "firstName", Label: "First name", Rule: "min=2", Message: "First name must be at least 2 characters", Normalize: name},
		{Name: "lastName", Label: "Last name", Rule: "min=2", Message: "Last name must be at least 2 characters", Normalize: name},
		{Name: "email", Label: "Email", Rule: "required,email", Message: "Please enter a valid email address", Normalize: security.SanitizeEmail},
		{Name: "phone", Label: "Phone", Rule: "min=10", Message: "Please enter a valid phone number", Normalize: security.SanitizePhone},
	}
}

func termsField() wizard.Field {
	return wizard.Field{Name: "termsAccepted", Label: "Terms", Kind: wizard.KindBool, Rule: "accepted", Message: "You must accept the terms and conditions"}
}

// dateField accepts YYYY-MM-DD dates from today up to two months ahead
func dateField(now Clock, closed ...time.Weekday) wizard.Field {
	return wizard.Field{
		Name:      "date",
		Label:     "Date",
		Rule:      "required,isodate",
		Message:   msgDateRequired,
		Normalize: trimmed,
		Check: func(value any) string {
			date, err := validation.ParseDate(value.(string))
			if err != nil {
				return msgDateRequired
			}
			current := now().UTC()
			today := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, time.UTC)
			switch {
			case date.Before(today):
				return msgDatePast
			case date.After(today.AddDate(0, maxMonthsAhead, 0)):
				return msgDateTooFar
			case slices.Contains(closed, date.Weekday()):
				return msgDateSunday
			}
			return ""
		},
	}
}

func timeField(slots []string) wizard.Field {
	return wizard.Field{
		Name:      "time",
		Label:     "Time",
		Rule:      "required",
		Message:   msgTime,
		Normalize: trimmed,
		Check: func(value any) string {
			if !slices.Contains(slots, value.(string)) {
				return msgTime
			}
			return ""
		},
	}
}

// TestRideDefinition is the five step test ride wizard
func TestRideDefinition(ref *Reference, now Clock) *wizard.Definition {
	return wizard.MustDefinition(string(KindTestRide),
		wizard.Step{Title: "Personal Information", Fields: contactFields()},
		wizard.Step{Title: "Motorcycle Selection", Fields: []wizard.Field{
			{Name: "bikeModel", Label: "Motorcycle", Rule: "required," + oneOf(ref.modelIDs()), Message: "Please select a motorcycle model", Normalize: trimmed},
			{Name: "dealership", Label: "Dealership", Rule: "required," + oneOf(locationIDs(ref.Dealerships)), Message: "Please select a dealership", Normalize: trimmed},
		}},
		wizard.Step{Title: "Schedule", Fields: []wizard.Field{
			dateField(now),
			timeField(ref.TestRideSlots),
		}},
		wizard.Step{Title: "Experience", Fields: []wizard.Field{
			{Name: "licenseType", Label: "License", Rule: "required," + oneOf(optionIDs(ref.LicenseTypes)), Message: "Please select your license type", Normalize: trimmed},
			{Name: "ridingExperience", Label: "Experience", Rule: "required," + oneOf(optionIDs(ref.Experience)), Message: "Please select your riding experience", Normalize: trimmed},
			{Name: "additionalInfo", Label: "Additional information", Normalize: text},
			termsField(),
		}},
		wizard.Step{Title: "Review"},
	)
}

// ServiceDefinition is the six step service booking wizard
func ServiceDefinition(ref *Reference, now Clock) *wizard.Definition {
	return wizard.MustDefinition(string(KindService),
		wizard.Step{Title: "Vehicle Information", Fields: []wizard.Field{
			{Name: "bikeModel", Label: "Motorcycle", Rule: "required," + oneOf(ref.modelIDs()), Message: "Please select your motorcycle model", Normalize: trimmed},
			{Name: "year", Label: "Year", Rule: "required,year4", Message: "Please enter a valid year (e.g., 2023)", Normalize: trimmed},
			{Name: "vin", Label: "VIN", Normalize: upper},
			{Name: "mileage", Label: "Mileage", Rule: "required", Message: "Please enter the current mileage", Normalize: short},
			{Name: "registrationNumber", Label: "Registration number", Normalize: upper},
		}},
		wizard.Step{Title: "Service Selection", Fields: []wizard.Field{
			{Name: "serviceType", Label: "Service type", Rule: "required," + oneOf(ref.serviceTypeIDs()), Message: "Please select a service type", Normalize: trimmed},
			{Name: "additionalServices", Label: "Additional services", Kind: wizard.KindList,
				Rule: "omitempty,dive," + oneOf(ref.additionalServiceIDs()), Message: "Please select from the listed additional services", Normalize: trimmed},
		}},
		wizard.Step{Title: "Schedule", Fields: []wizard.Field{
			{Name: "serviceLocation", Label: "Service location", Rule: "required," + oneOf(locationIDs(ref.ServiceLocations)), Message: "Please select a service location", Normalize: trimmed},
			dateField(now, time.Sunday),
			timeField(ref.ServiceSlots),
		}},
		wizard.Step{Title: "Customer Information", Fields: contactFields()},
		wizard.Step{Title: "Additional Information", Fields: []wizard.Field{
			{Name: "issues", Label: "Issues", Normalize: text},
			{Name: "dropOff", Label: "Early drop-off", Kind: wizard.KindBool},
			{Name: "waitOnsite", Label: "Wait on-site", Kind: wizard.KindBool},
			termsField(),
		}},
		wizard.Step{Title: "Review"},
	)
}

// ParseKind maps a route segment to a wizard kind
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindTestRide, KindService:
		return Kind(raw), nil
	}
	return "", ErrUnknownKind
}
