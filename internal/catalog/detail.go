package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DescriptionPreviewLength is how many characters a collapsed description shows
const DescriptionPreviewLength = 200

// SampleVehicleID is the record shown when the fallback lookup policy is active
const SampleVehicleID = "cbr1000rr"

var ErrInvalidLookupPolicy = errors.New("invalid lookup policy")

// LookupPolicy decides what a detail lookup does with an unknown id
type LookupPolicy string

const (
	// LookupStrict reports unknown ids as not found
	LookupStrict LookupPolicy = "strict"
	// LookupFallback renders the sample vehicle for unknown ids
	LookupFallback LookupPolicy = "fallback"
)

// ParseLookupPolicy parses a policy name. Empty means strict.
func ParseLookupPolicy(raw string) (LookupPolicy, error) {
	switch LookupPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", LookupStrict:
		return LookupStrict, nil
	case LookupFallback:
		return LookupFallback, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLookupPolicy, raw)
	}
}

// Color is a paint option with its hero image
type Color struct {
	Name  string `json:"name"`
	Hex   string `json:"hex"`
	Image string `json:"image"`
}

// FeatureNote is a headline feature with a short blurb
type FeatureNote struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EngineSpec lists engine and drivetrain details
type EngineSpec struct {
	Type           string `json:"type"`
	Displacement   string `json:"displacement"`
	Power          string `json:"power"`
	Torque         string `json:"torque,omitempty"`
	Compression    string `json:"compression,omitempty"`
	Bore           string `json:"bore,omitempty"`
	Stroke         string `json:"stroke,omitempty"`
	FuelSystem     string `json:"fuel_system,omitempty"`
	Transmission   string `json:"transmission,omitempty"`
	StartingSystem string `json:"starting_system,omitempty"`
}

// ChassisSpec lists frame, suspension, brakes and tyres
type ChassisSpec struct {
	Frame           string `json:"frame,omitempty"`
	FrontSuspension string `json:"front_suspension,omitempty"`
	RearSuspension  string `json:"rear_suspension,omitempty"`
	FrontBrake      string `json:"front_brake,omitempty"`
	RearBrake       string `json:"rear_brake,omitempty"`
	FrontTire       string `json:"front_tire,omitempty"`
	RearTire        string `json:"rear_tire,omitempty"`
}

// DimensionSpec lists sizes and capacities
type DimensionSpec struct {
	Length          string `json:"length,omitempty"`
	Width           string `json:"width,omitempty"`
	Height          string `json:"height,omitempty"`
	SeatHeight      string `json:"seat_height,omitempty"`
	Wheelbase       string `json:"wheelbase,omitempty"`
	GroundClearance string `json:"ground_clearance,omitempty"`
	FuelCapacity    string `json:"fuel_capacity,omitempty"`
	CurbWeight      string `json:"curb_weight"`
}

// Specifications is the spec table on the detail page
type Specifications struct {
	Engine     EngineSpec    `json:"engine"`
	Chassis    ChassisSpec   `json:"chassis"`
	Dimensions DimensionSpec `json:"dimensions"`
}

// Detail is a vehicle with its marketing content
type Detail struct {
	Vehicle
	Tagline        string         `json:"tagline"`
	Description    string         `json:"description"`
	Colors         []Color        `json:"colors"`
	Gallery        []string       `json:"gallery"`
	Highlights     []string       `json:"highlights"`
	FeatureNotes   []FeatureNote  `json:"feature_notes"`
	Specifications Specifications `json:"specifications"`
	RelatedIDs     []string       `json:"related_ids"`
}

// DetailState is the viewer's selection on the detail page
type DetailState struct {
	SelectedColor       int  `json:"selected_color"`
	SelectedImage       int  `json:"selected_image"`
	DescriptionExpanded bool `json:"description_expanded"`
}

// SelectColor picks a colour variant, clamping the index into range
func SelectColor(d Detail, s DetailState, index int) DetailState {
	s.SelectedColor = clamp(index, len(d.Colors))
	return s
}

// SelectImage picks a gallery image, clamping the index into range
func SelectImage(d Detail, s DetailState, index int) DetailState {
	s.SelectedImage = clamp(index, len(d.Gallery))
	return s
}

// ToggleDescription flips between the preview and the full description
func ToggleDescription(s DetailState) DetailState {
	s.DescriptionExpanded = !s.DescriptionExpanded
	return s
}

func clamp(index, n int) int {
	if n == 0 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

// DetailView is a detail rendered for a given state
type DetailView struct {
	Detail
	State         DetailState `json:"state"`
	SelectedColor *Color      `json:"selected_color,omitempty"`
	SelectedImage string      `json:"selected_image,omitempty"`
	VisibleText   string      `json:"visible_description"`
	CanExpand     bool        `json:"can_expand"`
	Related       []Summary   `json:"related"`
	Fallback      bool        `json:"fallback"`
	RequestedID   string      `json:"requested_id,omitempty"`
}

// Render derives the visible parts of the detail page from the state
func Render(d Detail, s DetailState) DetailView {
	s = SelectImage(d, SelectColor(d, s, s.SelectedColor), s.SelectedImage)

	view := DetailView{
		Detail:    d,
		State:     s,
		CanExpand: utf8.RuneCountInString(d.Description) > DescriptionPreviewLength,
	}
	if len(d.Colors) > 0 {
		color := d.Colors[s.SelectedColor]
		view.SelectedColor = &color
	}
	if len(d.Gallery) > 0 {
		view.SelectedImage = d.Gallery[s.SelectedImage]
	}

	view.VisibleText = d.Description
	if view.CanExpand && !s.DescriptionExpanded {
		view.VisibleText = string([]rune(d.Description)[:DescriptionPreviewLength]) + "..."
	}
	return view
}
