package types

import (
	"fmt"
	"strings"
	"time"
)

// Intent is the closed classification of a user query. Anything a classifier
// produces outside this set collapses to IntentGeneral.
type Intent string

const (
	IntentGeneral Intent = "GENERAL"
	IntentCatalog Intent = "CATALOG_SEARCH"
	IntentFinance Intent = "FINANCE_CALCULATION"
)

// ParseIntent maps raw classifier output to a valid Intent. The label is
// trimmed and uppercased before matching; unknown labels default to GENERAL.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToUpper(strings.TrimSpace(raw))) {
	case IntentCatalog:
		return IntentCatalog
	case IntentFinance:
		return IntentFinance
	default:
		return IntentGeneral
	}
}

// VehicleRecord is a single catalog entry. Records are immutable once loaded;
// the catalog store owns them and hands out snapshot slices.
type VehicleRecord struct {
	StockID string  `json:"stock_id"`
	Make    string  `json:"make"`
	Model   string  `json:"model"`
	Version string  `json:"version"`
	Year    int     `json:"year"`
	Price   float64 `json:"price"`
	KM      int     `json:"km"`

	Bluetooth *bool `json:"bluetooth,omitempty"`
	CarPlay   *bool `json:"car_play,omitempty"`

	// Dimensions in mm, optional.
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// AgeYears returns the vehicle age relative to the current year.
func (v VehicleRecord) AgeYears() int {
	age := time.Now().Year() - v.Year
	if age < 0 {
		return 0
	}
	return age
}

// IsRecentModel reports whether the vehicle is at most 3 years old.
func (v VehicleRecord) IsRecentModel() bool {
	return v.AgeYears() <= 3
}

// HasBluetooth treats a missing flag as false.
func (v VehicleRecord) HasBluetooth() bool {
	return v.Bluetooth != nil && *v.Bluetooth
}

// HasCarPlay treats a missing flag as false.
func (v VehicleRecord) HasCarPlay() bool {
	return v.CarPlay != nil && *v.CarPlay
}

// FormattedPrice renders the price the way it appears in customer-facing text.
func (v VehicleRecord) FormattedPrice() string {
	return fmt.Sprintf("$%s MXN", formatThousands(v.Price))
}

func (v VehicleRecord) String() string {
	return fmt.Sprintf("%d %s %s - %s", v.Year, v.Make, v.Model, v.FormattedPrice())
}

// CustomerPreferences is a per-request value object describing what the
// customer is looking for. Nil fields mean "no constraint".
type CustomerPreferences struct {
	MinPrice         *float64
	MaxPrice         *float64
	PreferredMakes   []string
	MaxKM            *int
	MinYear          *int
	MaxYear          *int
	RequiredFeatures []string
}

// Validate enforces the cross-field invariants on preferences.
func (p CustomerPreferences) Validate() error {
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MaxPrice <= *p.MinPrice {
		return fmt.Errorf("max_price (%.2f) must be greater than min_price (%.2f)", *p.MaxPrice, *p.MinPrice)
	}
	return nil
}

// ScoredVehicle pairs a catalog record with a relevance or recommendation score.
type ScoredVehicle struct {
	Vehicle VehicleRecord `json:"vehicle"`
	Score   float64       `json:"score"`
}

// RecommendationResult is the outcome of a preference-filtered recommendation.
// TotalMatches counts every record that passed the hard filters, independent
// of the truncated Vehicles slice.
type RecommendationResult struct {
	Vehicles     []ScoredVehicle `json:"vehicles"`
	TotalMatches int             `json:"total_matches"`
	Reason       string          `json:"reason"`
}

// FinancingPlan holds the derived amortization figures for one calculation.
// All monetary fields are rounded to 2 decimals.
type FinancingPlan struct {
	FinancedAmount float64 `json:"financed_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPaid      float64 `json:"total_paid"`
	TotalInterest  float64 `json:"total_interest"`
	TermYears      int     `json:"term_years"`
	TermMonths     int     `json:"term_months"`
	AnnualRate     float64 `json:"annual_rate"`
}

// ConversationTurn is one user message paired with the assistant reply.
type ConversationTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant,omitempty"`
}

// Conversation is the append-only turn history for one user session.
type Conversation struct {
	Turns []ConversationTurn `json:"turns"`
}

// HistoryText renders the last n turns as a compact context block for
// prompting. Earlier turns are never rewritten, only truncated away.
func (c Conversation) HistoryText(n int) string {
	turns := c.Turns
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("U: " + t.User + "\nA: " + t.Assistant)
	}
	return b.String()
}

func formatThousands(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
