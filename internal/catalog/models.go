package catalog

import "strings"

// Category groups vehicles in the showroom
type Category string

const (
	CategoryAll       Category = "all"
	CategorySport     Category = "sport"
	CategoryAdventure Category = "adventure"
	CategoryCruiser   Category = "cruiser"
	CategoryTouring   Category = "touring"
	CategoryNaked     Category = "naked"
	CategoryScooter   Category = "scooter"
)

// scooty is the id the storefront uses for the scooter line
const scooterAlias = "scooty"

var categoryNames = map[Category]string{
	CategoryAll:       "All Motorcycles",
	CategoryScooter:   "Scooty",
	CategorySport:     "Sport",
	CategoryAdventure: "Adventure",
	CategoryCruiser:   "Cruiser",
	CategoryTouring:   "Touring",
	CategoryNaked:     "Naked",
}

// categoryOrder is the order the storefront tabs are shown in
var categoryOrder = []Category{
	CategoryAll,
	CategoryScooter,
	CategorySport,
	CategoryAdventure,
	CategoryCruiser,
	CategoryTouring,
	CategoryNaked,
}

// ParseCategory resolves a category id, case-insensitively. "all" is accepted.
func ParseCategory(raw string) (Category, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == scooterAlias {
		return CategoryScooter, true
	}
	c := Category(value)
	if _, ok := categoryNames[c]; ok {
		return c, true
	}
	return "", false
}

// DisplayName returns the label shown for the category
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Vehicle is a catalog record. Records are never mutated after the store is built.
type Vehicle struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	Price      int      `json:"price"`
	EngineSize int      `json:"engine_size"`
	Power      float64  `json:"power"`
	Mileage    *float64 `json:"mileage,omitempty"`
	Weight     int      `json:"weight"`
	Features   []string `json:"features"`
	Image      string   `json:"image"`
	Year       int      `json:"year"`
	IsNew      bool     `json:"is_new"`
}

// MileageOrZero returns the mileage, treating a missing value as 0
func (v Vehicle) MileageOrZero() float64 {
	if v.Mileage == nil {
		return 0
	}
	return *v.Mileage
}

// HasFeature reports whether the vehicle lists the feature exactly
func (v Vehicle) HasFeature(feature string) bool {
	for _, f := range v.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Summary returns the card view of the vehicle
func (v Vehicle) Summary() Summary {
	return Summary{
		ID:       v.ID,
		Name:     v.Name,
		Category: v.Category,
		Price:    v.Price,
		Image:    v.Image,
	}
}

func (v Vehicle) clone() Vehicle {
	out := v
	if v.Features != nil {
		out.Features = append([]string(nil), v.Features...)
	}
	if v.Mileage != nil {
		m := *v.Mileage
		out.Mileage = &m
	}
	return out
}

// Summary is the short form used for related vehicles and listings
type Summary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Price    int      `json:"price"`
	Image    string   `json:"image"`
}

// CategoryInfo is a storefront category tab
type CategoryInfo struct {
	ID    Category `json:"id"`
	Name  string   `json:"name"`
	Count int      `json:"count"`
}

// ListResult is the response for a filtered listing
type ListResult struct {
	Vehicles []Vehicle `json:"vehicles"`
	Total    int       `json:"total"`
	Criteria Criteria  `json:"criteria"`
}
