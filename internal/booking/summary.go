package booking

import (
	"github.com/richxcame/moto-showroom/internal/wizard"
)

// Summary is the review page: selected ids resolved to what the customer sees
type Summary struct {
	Customer           *Customer           `json:"customer,omitempty"`
	Bike               *ModelOption        `json:"bike,omitempty"`
	Dealership         *Location           `json:"dealership,omitempty"`
	ServiceLocation    *Location           `json:"service_location,omitempty"`
	Date               string              `json:"date,omitempty"`
	Time               string              `json:"time,omitempty"`
	LicenseType        string              `json:"license_type,omitempty"`
	RidingExperience   string              `json:"riding_experience,omitempty"`
	Year               string              `json:"year,omitempty"`
	Mileage            string              `json:"mileage,omitempty"`
	ServiceType        *ServiceType        `json:"service_type,omitempty"`
	AdditionalServices []AdditionalService `json:"additional_services,omitempty"`
	EstimateFrom       int                 `json:"estimate_from,omitempty"`
	DropOff            bool                `json:"drop_off,omitempty"`
	WaitOnsite         bool                `json:"wait_onsite,omitempty"`
}

// Customer is the contact block of a summary
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Summarize resolves a wizard's values against the reference data.
// Unknown ids are left out.
func Summarize(kind Kind, ref *Reference, s wizard.State) Summary {
	sum := Summary{
		Date: str(s.Values, "date"),
		Time: str(s.Values, "time"),
	}

	first, last := str(s.Values, "firstName"), str(s.Values, "lastName")
	if first != "" || last != "" {
		full := first
		if last != "" {
			if full != "" {
				full += " "
			}
			full += last
		}
		sum.Customer = &Customer{Name: full, Email: str(s.Values, "email"), Phone: str(s.Values, "phone")}
	}
	if m, ok := ref.Model(str(s.Values, "bikeModel")); ok {
		sum.Bike = &m
	}

	switch kind {
	case KindTestRide:
		if l, ok := findLocation(ref.Dealerships, str(s.Values, "dealership")); ok {
			sum.Dealership = &l
		}
		if o, ok := findOption(ref.LicenseTypes, str(s.Values, "licenseType")); ok {
			sum.LicenseType = o.Name
		}
		if o, ok := findOption(ref.Experience, str(s.Values, "ridingExperience")); ok {
			sum.RidingExperience = o.Name
		}
	case KindService:
		if l, ok := findLocation(ref.ServiceLocations, str(s.Values, "serviceLocation")); ok {
			sum.ServiceLocation = &l
		}
		sum.Year = str(s.Values, "year")
		sum.Mileage = str(s.Values, "mileage")
		if st, ok := ref.ServiceType(str(s.Values, "serviceType")); ok {
			sum.ServiceType = &st
		}
		extras := list(s.Values, "additionalServices")
		for _, id := range extras {
			if extra, ok := ref.AdditionalService(id); ok {
				sum.AdditionalServices = append(sum.AdditionalServices, extra)
			}
		}
		sum.EstimateFrom = ref.EstimateFrom(str(s.Values, "serviceType"), extras)
		sum.DropOff = flag(s.Values, "dropOff")
		sum.WaitOnsite = flag(s.Values, "waitOnsite")
	}
	return sum
}

func str(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return s
}

func flag(values map[string]any, key string) bool {
	b, _ := values[key].(bool)
	return b
}

func list(values map[string]any, key string) []string {
	l, _ := values[key].([]string)
	return l
}
