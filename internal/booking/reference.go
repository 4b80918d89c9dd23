package booking

import (
	"strings"

	"github.com/richxcame/moto-showroom/internal/catalog"
)

// Option is a selectable value with its label
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ModelOption is a motorcycle that can be ridden or serviced
type ModelOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Location is a dealership or service center
type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ServiceType is a bookable service package
type ServiceType struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	EstimatedTime string `json:"estimated_time"`
	Price         string `json:"price"`
	// EstimateFrom is the low end of the price range in dollars, 0 when it varies
	EstimateFrom int `json:"estimate_from"`
}

// AdditionalService is an add-on to a service booking
type AdditionalService struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	EstimateFrom int    `json:"estimate_from"`
}

// Reference holds every list the two wizards select from
type Reference struct {
	Models             []ModelOption       `json:"models"`
	Dealerships        []Location          `json:"dealerships"`
	ServiceLocations   []Location          `json:"service_locations"`
	TestRideSlots      []string            `json:"test_ride_slots"`
	ServiceSlots       []string            `json:"service_slots"`
	ServiceTypes       []ServiceType       `json:"service_types"`
	AdditionalServices []AdditionalService `json:"additional_services"`
	LicenseTypes       []Option            `json:"license_types"`
	Experience         []Option            `json:"riding_experience"`
}

// NewReference builds the reference data. Models are the catalog's
// motorcycles; scooters are not offered for test rides or workshop slots.
func NewReference(store *catalog.Store) *Reference {
	ref := &Reference{
		Dealerships: []Location{
			{ID: "dealer1", Name: "Honda Powersports Downtown", Address: "123 Main St, New York, NY 10001"},
			{ID: "dealer2", Name: "Honda Motorcycle Center", Address: "456 Park Ave, Los Angeles, CA 90001"},
			{ID: "dealer3", Name: "City Honda Powersports", Address: "789 Market St, Chicago, IL 60007"},
			{ID: "dealer4", Name: "Metro Honda Motorcycles", Address: "321 Oak Rd, Houston, TX 77001"},
			{ID: "dealer5", Name: "Capital Honda", Address: "555 Pine Blvd, Miami, FL 33101"},
		},
		ServiceLocations: []Location{
			{ID: "service1", Name: "Honda Service Center Downtown", Address: "123 Main St, New York, NY 10001"},
			{ID: "service2", Name: "Honda Motorcycle Service", Address: "456 Park Ave, Los Angeles, CA 90001"},
			{ID: "service3", Name: "City Honda Service", Address: "789 Market St, Chicago, IL 60007"},
			{ID: "service4", Name: "Metro Honda Service Center", Address: "321 Oak Rd, Houston, TX 77001"},
			{ID: "service5", Name: "Capital Honda Service", Address: "555 Pine Blvd, Miami, FL 33101"},
		},
		TestRideSlots: []string{"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM"},
		ServiceSlots:  []string{"8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM"},
		ServiceTypes: []ServiceType{
			{ID: "regular", Name: "Regular Maintenance", Description: "Oil change, filter replacement, and basic inspection",
				EstimatedTime: "1-2 hours", Price: "$150-$250", EstimateFrom: 150},
			{ID: "major", Name: "Major Service", Description: "Comprehensive service including valve clearance check, cooling system flush, and more",
				EstimatedTime: "3-5 hours", Price: "$350-$600", EstimateFrom: 350},
			{ID: "tires", Name: "Tire Replacement", Description: "Removal and installation of new tires, including balancing",
				EstimatedTime: "1-2 hours", Price: "$250-$450 (plus tire cost)", EstimateFrom: 250},
			{ID: "diagnostic", Name: "Diagnostic Check", Description: "Computer diagnostic to identify issues with electronic systems",
				EstimatedTime: "1 hour", Price: "$100-$150", EstimateFrom: 100},
			{ID: "repair", Name: "Repair Service", Description: "General repairs for specific issues with your motorcycle",
				EstimatedTime: "Varies", Price: "Varies based on issue"},
		},
		AdditionalServices: []AdditionalService{
			{ID: "wash", Name: "Motorcycle Wash & Detail", Price: "$50", EstimateFrom: 50},
			{ID: "brake", Name: "Brake Fluid Change", Price: "$80", EstimateFrom: 80},
			{ID: "chain", Name: "Chain Adjustment & Lubrication", Price: "$45", EstimateFrom: 45},
			{ID: "battery", Name: "Battery Check & Replacement", Price: "$25 (check) / $120+ (replacement)", EstimateFrom: 25},
			{ID: "suspension", Name: "Suspension Check & Adjustment", Price: "$75", EstimateFrom: 75},
		},
		LicenseTypes: []Option{
			{ID: "full", Name: "Full Motorcycle License"},
			{ID: "provisional", Name: "Provisional/Learner License"},
			{ID: "international", Name: "International License"},
		},
		Experience: []Option{
			{ID: "beginner", Name: "Beginner (0-2 years)"},
			{ID: "intermediate", Name: "Intermediate (2-5 years)"},
			{ID: "experienced", Name: "Experienced (5+ years)"},
		},
	}

	for _, v := range store.All() {
		if v.Category == catalog.CategoryScooter {
			continue
		}
		ref.Models = append(ref.Models, ModelOption{ID: v.ID, Name: v.Name, Category: v.Category.DisplayName()})
	}
	return ref
}

// oneOf renders ids as a validator oneof parameter
func oneOf(ids []string) string {
	return "oneof=" + strings.Join(ids, " ")
}

func (r *Reference) modelIDs() []string {
	ids := make([]string, len(r.Models))
	for i, m := range r.Models {
		ids[i] = m.ID
	}
	return ids
}

func locationIDs(locations []Location) []string {
	ids := make([]string, len(locations))
	for i, l := range locations {
		ids[i] = l.ID
	}
	return ids
}

func optionIDs(options []Option) []string {
	ids := make([]string, len(options))
	for i, o := range options {
		ids[i] = o.ID
	}
	return ids
}

func (r *Reference) serviceTypeIDs() []string {
	ids := make([]string, len(r.ServiceTypes))
	for i, s := range r.ServiceTypes {
		ids[i] = s.ID
	}
	return ids
}

func (r *Reference) additionalServiceIDs() []string {
	ids := make([]string, len(r.AdditionalServices))
	for i, s := range r.AdditionalServices {
		ids[i] = s.ID
	}
	return ids
}

// Model looks up a model by id
func (r *Reference) Model(id string) (ModelOption, bool) {
	for _, m := range r.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelOption{}, false
}

func findLocation(locations []Location, id string) (Location, bool) {
	for _, l := range locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

func findOption(options []Option, id string) (Option, bool) {
	for _, o := range options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// ServiceType looks up a service package by id
func (r *Reference) ServiceType(id string) (ServiceType, bool) {
	for _, s := range r.ServiceTypes {
		if s.ID == id {
			return s, true
		}
	}
	return ServiceType{}, false
}

// AdditionalService looks up an add-on by id
func (r *Reference) AdditionalService(id string) (AdditionalService, bool) {
	for _, s := range r.AdditionalServices {
		if s.ID == id {
			return s, true
		}
	}
	return AdditionalService{}, false
}

// EstimateFrom adds up the low end of a service package and its add-ons
func (r *Reference) EstimateFrom(serviceType string, extras []string) int {
	total := 0
	if st, ok := r.ServiceType(serviceType); ok {
		total += st.EstimateFrom
	}
	for _, id := range extras {
		if extra, ok := r.AdditionalService(id); ok {
			total += extra.EstimateFrom
		}
	}
	return total
}
