package booking

import (
	"testing"
	"time"

	"github.com/richxcame/moto-showroom/internal/catalog"
	"github.com/richxcame/moto-showroom/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var fixedNow = time.Date(2026, 10, 14, 16, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testReference() *Reference {
	return NewReference(catalog.DefaultStore())
}

func testRideValues() map[string]any {
	return map[string]any{
		"firstName":        "Asha",
		"lastName":         "Rao",
		"email":            "Asha@Example.com",
		"phone":            "+91 98765 43210",
		"bikeModel":        "cb650r",
		"dealership":       "dealer1",
		"date":             "2026-10-20",
		"time":             "10:00 AM",
		"licenseType":      "full",
		"ridingExperience": "intermediate",
		"termsAccepted":    true,
	}
}

func serviceValues() map[string]any {
	return map[string]any{
		"bikeModel":          "africatwin",
		"year":               "2023",
		"mileage":            "12000",
		"registrationNumber": " ka01ab1234 ",
		"serviceType":        "regular",
		"additionalServices": []any{"wash", "chain", "wash"},
		"serviceLocation":    "service2",
		"date":               "2026-10-16",
		"time":               "8:00 AM",
		"firstName":          "Vikram",
		"lastName":           "Shah",
		"email":              "vikram@example.com",
		"phone":              "9876543210",
		"dropOff":            true,
		"termsAccepted":      true,
	}
}

func TestDefinitions_StepCounts(t *testing.T) {
	ref := testReference()

	assert.Equal(t, 5, TestRideDefinition(ref, fixedClock).StepCount())
	assert.Equal(t, 6, ServiceDefinition(ref, fixedClock).StepCount())
}

func TestDefinitions_FullFormsValidate(t *testing.T) {
	ref := testReference()

	tests := []struct {
		name   string
		def    *wizard.Definition
		values map[string]any
	}{
		{"test ride", TestRideDefinition(ref, fixedClock), testRideValues()},
		{"service", ServiceDefinition(ref, fixedClock), serviceValues()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := wizard.SetFields(tt.def, wizard.Reset(tt.def), tt.values)
			require.NoError(t, err)
			assert.Empty(t, wizard.Validate(tt.def, s))
		})
	}
}

func TestDefinitions_NormalizesInput(t *testing.T) {
	ref := testReference()
	def := ServiceDefinition(ref, fixedClock)

	s, err := wizard.SetFields(def, wizard.Reset(def), serviceValues())
	require.NoError(t, err)

	assert.Equal(t, "KA01AB1234", s.Values["registrationNumber"])
	assert.Equal(t, []string{"wash", "chain"}, s.Values["additionalServices"])

	def = TestRideDefinition(ref, fixedClock)
	s, err = wizard.SetFields(def, wizard.Reset(def), testRideValues())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", s.Values["email"])
	assert.Equal(t, "+919876543210", s.Values["phone"])
}

func TestDefinitions_DateWindow(t *testing.T) {
	ref := testReference()
	testRide := TestRideDefinition(ref, fixedClock)
	service := ServiceDefinition(ref, fixedClock)

	tests := []struct {
		name string
		def  *wizard.Definition
		date string
		want string
	}{
		{"today", testRide, "2026-10-14", ""},
		{"yesterday", testRide, "2026-10-13", msgDatePast},
		{"last bookable day", testRide, "2026-12-14", ""},
		{"beyond two months", testRide, "2026-12-15", msgDateTooFar},
		{"not a date", testRide, "next tuesday", msgDateRequired},
		{"empty", testRide, "", msgDateRequired},
		{"sunday test ride", testRide, "2026-10-18", ""},
		{"sunday service", service, "2026-10-18", msgDateSunday},
		{"saturday service", service, "2026-10-17", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := wizard.SetField(tt.def, wizard.Reset(tt.def), "date", tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wizard.Validate(tt.def, s)["date"])
		})
	}
}

func TestDefinitions_DateWindowUsesUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 2026-10-14 20:30 UTC
	clock := func() time.Time { return time.Date(2026, 10, 15, 2, 0, 0, 0, ist) }
	svc := NewService(NewMemoryStore(0), testReference(), NewLogSubmitter(0), clock)

	opts, err := svc.Options(KindTestRide)
	require.NoError(t, err)
	require.Equal(t, "2026-10-14", opts.Dates.From)

	def := TestRideDefinition(testReference(), clock)
	for date, want := range map[string]string{
		opts.Dates.From: "",
		opts.Dates.To:   "",
		"2026-10-13":    msgDatePast,
		"2026-12-15":    msgDateTooFar,
	} {
		s, err := wizard.SetField(def, wizard.Reset(def), "date", date)
		require.NoError(t, err)
		assert.Equal(t, want, wizard.Validate(def, s)["date"], date)
	}
}

func TestDefinitions_FreeTextKeepsLineBreaks(t *testing.T) {
	def := ServiceDefinition(testReference(), fixedClock)

	s, err := wizard.SetField(def, wizard.Reset(def), "issues", "line one\nline two\n\n-   brakes squeak ")
	require.NoError(t, err)

	assert.Equal(t, "line one\nline two\n\n- brakes squeak", s.Values["issues"])
}

func TestDefinitions_TimeSlots(t *testing.T) {
	ref := testReference()
	testRide := TestRideDefinition(ref, fixedClock)
	service := ServiceDefinition(ref, fixedClock)

	tests := []struct {
		name string
		def  *wizard.Definition
		slot string
		want string
	}{
		{"test ride opening", testRide, "9:00 AM", ""},
		{"test ride last slot", testRide, "5:00 PM", ""},
		{"test ride before opening", testRide, "8:00 AM", msgTime},
		{"service opening", service, "8:00 AM", ""},
		{"service after closing", service, "5:00 PM", msgTime},
		{"padded", service, "  9:00 AM ", ""},
		{"empty", service, "", msgTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := wizard.SetField(tt.def, wizard.Reset(tt.def), "time", tt.slot)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wizard.Validate(tt.def, s)["time"])
		})
	}
}

func TestDefinitions_Messages(t *testing.T) {
	ref := testReference()
	def := TestRideDefinition(ref, fixedClock)

	errs := wizard.Validate(def, wizard.Reset(def))

	assert.Equal(t, "First name must be at least 2 characters", errs["firstName"])
	assert.Equal(t, "Last name must be at least 2 characters", errs["lastName"])
	assert.Equal(t, "Please enter a valid email address", errs["email"])
	assert.Equal(t, "Please select a motorcycle model", errs["bikeModel"])
	assert.Equal(t, "Please select a dealership", errs["dealership"])
	assert.Equal(t, "Please select your license type", errs["licenseType"])
	assert.Equal(t, "Please select your riding experience", errs["ridingExperience"])
	assert.Equal(t, "You must accept the terms and conditions", errs["termsAccepted"])
	assert.NotContains(t, errs, "additionalInfo")
}

func TestDefinitions_RejectsUnknownChoices(t *testing.T) {
	ref := testReference()
	def := ServiceDefinition(ref, fixedClock)

	s, err := wizard.SetFields(def, wizard.Reset(def), map[string]any{
		"bikeModel":          "activa6g",
		"year":               "23",
		"serviceType":        "paint",
		"additionalServices": []string{"wash", "polish"},
		"serviceLocation":    "dealer1",
	})
	require.NoError(t, err)

	errs := wizard.Validate(def, s)
	assert.Equal(t, "Please select your motorcycle model", errs["bikeModel"], "scooters are not serviced through the wizard")
	assert.Equal(t, "Please enter a valid year (e.g., 2023)", errs["year"])
	assert.Equal(t, "Please select a service type", errs["serviceType"])
	assert.Contains(t, errs, "additionalServices")
	assert.Equal(t, "Please select a service location", errs["serviceLocation"])
	assert.Equal(t, "Please enter the current mileage", errs["mileage"])
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("test-rides")
	require.NoError(t, err)
	assert.Equal(t, KindTestRide, kind)

	kind, err = ParseKind("service-bookings")
	require.NoError(t, err)
	assert.Equal(t, KindService, kind)

	_, err = ParseKind("oil-change")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
