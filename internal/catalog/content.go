package catalog

import (
	"fmt"
	"strings"
)

// content is the editorial part of a detail page, keyed by vehicle id
type content struct {
	Tagline        string
	Description    string
	Colors         []Color
	Highlights     []string
	FeatureNotes   []FeatureNote
	Specifications Specifications
	Related        []string
}

var editorial = map[string]content{
	"cbr1000rr": {
		Tagline: "Total Control",
		Description: "The Honda CBR1000RR Fireblade is the ultimate expression of Honda's racing DNA. " +
			"With cutting-edge technology derived from MotoGP, it delivers unparalleled performance on both road and track. " +
			"The Fireblade's advanced electronics package, including Honda Selectable Torque Control (HSTC), Wheelie Control, " +
			"and multiple riding modes, ensures that riders of all skill levels can experience the thrill of this superbike with confidence.",
		Colors: []Color{
			{Name: "Grand Prix Red", Hex: "#FF0000", Image: "/images/bikes/cbr1000rr-red.webp"},
			{Name: "Matte Black Metallic", Hex: "#222222", Image: "/images/bikes/cbr1000rr-black.webp"},
			{Name: "Pearl Blue", Hex: "#0055FF", Image: "/images/bikes/cbr1000rr-blue.webp"},
		},
		FeatureNotes: []FeatureNote{
			{Name: "Powerful Engine", Description: "999cc liquid-cooled inline four-cylinder engine delivers exceptional power and torque throughout the rev range."},
			{Name: "Advanced Electronics", Description: "Sophisticated electronics package includes Honda Selectable Torque Control, Wheelie Control, and multiple riding modes."},
			{Name: "Lightweight Design", Description: "Titanium fuel tank and carbon fiber components reduce weight for improved handling and performance."},
			{Name: "Aerodynamic Bodywork", Description: "Wind tunnel-tested bodywork reduces drag and improves stability at high speeds."},
			{Name: "Brembo Brakes", Description: "High-performance Brembo brakes provide exceptional stopping power and precise control."},
			{Name: "Öhlins Suspension", Description: "Fully adjustable Öhlins suspension offers superior handling and ride quality."},
		},
		Specifications: Specifications{
			Engine: EngineSpec{
				Type:           "Liquid-cooled 4-stroke 16-valve DOHC Inline-4",
				Displacement:   "999cc",
				Power:          "214 HP @ 14,500 rpm",
				Torque:         "113 Nm @ 12,500 rpm",
				Compression:    "13.0:1",
				Bore:           "76mm",
				Stroke:         "55mm",
				FuelSystem:     "PGM-FI electronic fuel injection",
				Transmission:   "6-speed with quickshifter",
				StartingSystem: "Electric",
			},
			Chassis: ChassisSpec{
				Frame:           "Aluminum composite twin spar",
				FrontSuspension: "Öhlins NPX 43mm telescopic fork with preload, compression and rebound adjustment",
				RearSuspension:  "Öhlins TTX36 Pro shock with preload, compression and rebound adjustment",
				FrontBrake:      "Brembo 330mm dual hydraulic disc with 4-piston calipers and sintered metal pads",
				RearBrake:       "220mm hydraulic disc with single-piston caliper and sintered metal pads",
				FrontTire:       "120/70ZR17",
				RearTire:        "200/55ZR17",
			},
			Dimensions: DimensionSpec{
				Length:          "2,065mm",
				Width:           "720mm",
				Height:          "1,125mm",
				SeatHeight:      "830mm",
				Wheelbase:       "1,455mm",
				GroundClearance: "130mm",
				FuelCapacity:    "16.1 liters",
				CurbWeight:      "201kg",
			},
		},
		Highlights: []string{
			"MotoGP-derived aerodynamic winglets",
			"TFT instrument display",
			"Selectable power modes",
			"Titanium exhaust system",
			"LED lighting",
			"Cornering ABS",
		},
		Related: []string{"cbr600rr", "cbr500r", "cb1000r"},
	},
	"africatwin": {
		Tagline: "True Adventure",
		Description: "The Africa Twin is built to go anywhere. A torquey parallel twin, long-travel suspension and " +
			"an optional dual clutch transmission make it as comfortable on a highway as it is on a gravel trail.",
		Colors: []Color{
			{Name: "Tricolour", Hex: "#C8102E", Image: "/images/bikes/africatwin-tricolour.webp"},
			{Name: "Matte Ballistic Black", Hex: "#1B1B1B", Image: "/images/bikes/africatwin-black.webp"},
		},
		Highlights: []string{"Six-axis IMU", "Apple CarPlay ready TFT", "Cruise control"},
		Related:    []string{"nc750x", "cb500x", "nt1100"},
	},
	"goldwing": {
		Tagline: "The Grand Tourer",
		Description: "The Gold Wing Tour pairs a six-cylinder boxer engine with a seven-speed DCT, " +
			"navigation, an electric windscreen and airbag-ready touring comfort for two.",
		Colors: []Color{
			{Name: "Pearl Glare White", Hex: "#F2F2F2", Image: "/images/bikes/goldwing-white.webp"},
			{Name: "Gunmetal Black", Hex: "#2E2E30", Image: "/images/bikes/goldwing-black.webp"},
		},
		Highlights: []string{"Seven-speed DCT", "Integrated navigation", "Electric windscreen"},
		Related:    []string{"nt1100", "africatwin", "rebel1100"},
	},
}

// BuildDetail assembles the detail page for a catalog vehicle. Vehicles
// without editorial content get a generated page from their spec sheet.
func BuildDetail(v Vehicle) Detail {
	c, ok := editorial[v.ID]
	if !ok {
		c = generatedContent(v)
	}

	d := Detail{
		Vehicle:        v,
		Tagline:        c.Tagline,
		Description:    c.Description,
		Colors:         append([]Color(nil), c.Colors...),
		Highlights:     append([]string(nil), c.Highlights...),
		FeatureNotes:   append([]FeatureNote(nil), c.FeatureNotes...),
		Specifications: c.Specifications,
		RelatedIDs:     append([]string(nil), c.Related...),
	}
	if len(d.Colors) == 0 {
		d.Colors = []Color{{Name: "Standard", Hex: "#CC0000", Image: v.Image}}
	}
	if len(d.FeatureNotes) == 0 {
		for _, f := range v.Features {
			d.FeatureNotes = append(d.FeatureNotes, FeatureNote{Name: f})
		}
	}
	if d.Specifications.Engine.Displacement == "" {
		d.Specifications = specSheet(v)
	}

	d.Gallery = []string{v.Image}
	for _, color := range d.Colors {
		if color.Image != "" && color.Image != v.Image {
			d.Gallery = append(d.Gallery, color.Image)
		}
	}
	return d
}

func generatedContent(v Vehicle) content {
	return content{
		Tagline: v.Category.DisplayName(),
		Description: fmt.Sprintf("The %s is a %dcc %s machine producing %.0f hp with a kerb weight of %dkg. Standard equipment includes %s.",
			v.Name, v.EngineSize, strings.ToLower(v.Category.DisplayName()), v.Power, v.Weight, strings.Join(v.Features, ", ")),
		Highlights: append([]string(nil), v.Features...),
	}
}

func specSheet(v Vehicle) Specifications {
	return Specifications{
		Engine: EngineSpec{
			Type:         "4-stroke",
			Displacement: fmt.Sprintf("%dcc", v.EngineSize),
			Power:        fmt.Sprintf("%.0f HP", v.Power),
		},
		Dimensions: DimensionSpec{
			CurbWeight: fmt.Sprintf("%dkg", v.Weight),
		},
	}
}
