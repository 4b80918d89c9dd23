package eventbus

import "time"

// LeadContact is the contact block shared by every lead.
type LeadContact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// TestRideRequestedData is emitted when a visitor books a test ride.
type TestRideRequestedData struct {
	SubmissionID     string      `json:"submission_id"`
	SessionID        string      `json:"session_id"`
	Contact          LeadContact `json:"contact"`
	BikeModel        string      `json:"bike_model"`
	BikeName         string      `json:"bike_name"`
	Dealership       string      `json:"dealership"`
	DealershipName   string      `json:"dealership_name"`
	Date             string      `json:"date"`
	Time             string      `json:"time"`
	LicenseType      string      `json:"license_type"`
	RidingExperience string      `json:"riding_experience"`
	AdditionalInfo   string      `json:"additional_info,omitempty"`
	RequestedAt      time.Time   `json:"requested_at"`
}

// ServiceRequestedData is emitted when a service appointment is booked.
type ServiceRequestedData struct {
	SubmissionID       string      `json:"submission_id"`
	SessionID          string      `json:"session_id"`
	Contact            LeadContact `json:"contact"`
	BikeModel          string      `json:"bike_model"`
	Year               string      `json:"year"`
	VIN                string      `json:"vin,omitempty"`
	Mileage            string      `json:"mileage"`
	RegistrationNumber string      `json:"registration_number,omitempty"`
	ServiceType        string      `json:"service_type"`
	AdditionalServices []string    `json:"additional_services,omitempty"`
	ServiceLocation    string      `json:"service_location"`
	Date               string      `json:"date"`
	Time               string      `json:"time"`
	Issues             string      `json:"issues,omitempty"`
	DropOff            bool        `json:"drop_off"`
	WaitOnsite         bool        `json:"wait_onsite"`
	EstimatedPrice     int         `json:"estimated_price"`
	RequestedAt        time.Time   `json:"requested_at"`
}
