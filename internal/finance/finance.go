package finance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Limits accepted by the estimator
const (
	MaxTenureMonths = 84
	MaxAnnualRate   = 30.0
)

var (
	ErrInvalidPrincipal   = errors.New("principal must be greater than zero")
	ErrInvalidTenure      = errors.New("tenure must be a positive number of months")
	ErrInvalidRate        = errors.New("annual rate must not be negative")
	ErrDownPaymentTooHigh = errors.New("down payment must be less than the price")
)

// ComputeMonthlyPayment returns the fixed monthly installment that repays
// principal over months at annualRatePercent. A zero rate divides evenly.
func ComputeMonthlyPayment(principal, annualRatePercent float64, months int) (float64, error) {
	if principal <= 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return 0, ErrInvalidPrincipal
	}
	if months <= 0 {
		return 0, ErrInvalidTenure
	}
	if annualRatePercent < 0 || math.IsNaN(annualRatePercent) {
		return 0, ErrInvalidRate
	}

	n := float64(months)
	if annualRatePercent == 0 {
		return principal / n, nil
	}

	r := annualRatePercent / 100 / 12
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1), nil
}

// QuoteRequest is the input of Calculate. Principal is used when set;
// otherwise it is Price minus DownPayment.
type QuoteRequest struct {
	Price       float64 `json:"price"`
	Principal   float64 `json:"principal"`
	DownPayment float64 `json:"down_payment"`
	Months      int     `json:"months"`
	AnnualRate  float64 `json:"annual_rate"`
}

// Quote is a worked loan estimate, rounded to 2 decimals
type Quote struct {
	Price          float64        `json:"price,omitempty"`
	DownPayment    float64        `json:"down_payment"`
	Principal      float64        `json:"principal"`
	Months         int            `json:"months"`
	AnnualRate     float64        `json:"annual_rate"`
	MonthlyPayment float64        `json:"monthly_payment"`
	TotalPayable   float64        `json:"total_payable"`
	TotalInterest  float64        `json:"total_interest"`
	Display        FormattedQuote `json:"display"`
}

// FormattedQuote carries the rupee strings shown next to the numbers
type FormattedQuote struct {
	Principal      string `json:"principal"`
	MonthlyPayment string `json:"monthly_payment"`
	TotalPayable   string `json:"total_payable"`
	TotalInterest  string `json:"total_interest"`
}

// Calculate works out a quote
func Calculate(req QuoteRequest) (*Quote, error) {
	if req.DownPayment < 0 {
		return nil, fmt.Errorf("%w: down payment is negative", ErrInvalidPrincipal)
	}
	if req.Months > MaxTenureMonths {
		return nil, fmt.Errorf("%w: at most %d months", ErrInvalidTenure, MaxTenureMonths)
	}
	if req.AnnualRate > MaxAnnualRate {
		return nil, fmt.Errorf("%w: at most %.0f%%", ErrInvalidRate, MaxAnnualRate)
	}

	principal := req.Principal
	if principal == 0 {
		if req.Price > 0 && req.DownPayment >= req.Price {
			return nil, ErrDownPaymentTooHigh
		}
		principal = req.Price - req.DownPayment
	}

	monthly, err := ComputeMonthlyPayment(principal, req.AnnualRate, req.Months)
	if err != nil {
		return nil, err
	}

	total := monthly * float64(req.Months)
	q := &Quote{
		Price:          round2(req.Price),
		DownPayment:    round2(req.DownPayment),
		Principal:      round2(principal),
		Months:         req.Months,
		AnnualRate:     req.AnnualRate,
		MonthlyPayment: round2(monthly),
		TotalPayable:   round2(total),
		TotalInterest:  round2(total - principal),
	}
	q.Display = FormattedQuote{
		Principal:      FormatINR(q.Principal),
		MonthlyPayment: FormatINR(q.MonthlyPayment),
		TotalPayable:   FormatINR(q.TotalPayable),
		TotalInterest:  FormatINR(q.TotalInterest),
	}
	return q, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatINR renders a whole-rupee amount with Indian digit grouping, e.g. ₹18,00,000
func FormatINR(amount float64) string {
	rounded := math.Round(amount)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	digits := strconv.FormatFloat(math.Abs(rounded), 'f', 0, 64)
	return sign + "₹" + groupIndian(digits)
}

// groupIndian puts the last three digits together and the rest in pairs
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
