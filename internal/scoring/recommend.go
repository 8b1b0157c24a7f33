package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/motoria/dealer-agent/internal/types"
)

// Soft-score weights. The price-fit target sits at 60% of the preferred
// range, not the midpoint, favoring the upper-middle of the customer's
// budget.
const (
	priceFitWeight    = 0.3
	priceFitPosition  = 0.6
	recencyWeight     = 0.2
	maxAgeYears       = 15.0
	mileageWeight     = 0.2
	maxMileageKM      = 200000.0
	featureBonus      = 0.1
	recentModelBonus  = 0.1
	similarSameMake   = 0.4
	similarPriceBand  = 0.3
	similarYearBand   = 0.2
	similarFeature    = 0.05
)

// Searcher is the subset of the catalog store the recommender needs.
type Searcher interface {
	All() []types.VehicleRecord
	Search(prefs types.CustomerPreferences) []types.VehicleRecord
}

// Recommender ranks catalog records against customer preferences.
type Recommender struct {
	catalog Searcher
}

func NewRecommender(catalog Searcher) *Recommender {
	return &Recommender{catalog: catalog}
}

// Recommend applies the hard filters, soft-scores the survivors and returns
// the top limit records. TotalMatches reflects all filter survivors, not the
// truncated list.
func (r *Recommender) Recommend(prefs types.CustomerPreferences, limit int) (types.RecommendationResult, error) {
	if err := prefs.Validate(); err != nil {
		return types.RecommendationResult{}, err
	}

	survivors := r.catalog.Search(prefs)

	scored := make([]types.ScoredVehicle, 0, len(survivors))
	for _, rec := range survivors {
		scored = append(scored, types.ScoredVehicle{
			Vehicle: rec,
			Score:   RecommendationScore(rec, prefs),
		})
	}
	sortScored(scored)

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	return types.RecommendationResult{
		Vehicles:     scored,
		TotalMatches: len(survivors),
		Reason:       recommendationReason(prefs, len(survivors)),
	}, nil
}

// RecommendationScore computes the weighted soft score for one record.
func RecommendationScore(rec types.VehicleRecord, prefs types.CustomerPreferences) float64 {
	score := 0.0

	if prefs.MinPrice != nil && prefs.MaxPrice != nil {
		priceRange := *prefs.MaxPrice - *prefs.MinPrice
		if priceRange > 0 {
			ideal := *prefs.MinPrice + priceRange*priceFitPosition
			priceScore := math.Max(0, 1-math.Abs(rec.Price-ideal)/priceRange)
			score += priceScore * priceFitWeight
		}
	}

	ageScore := math.Max(0, 1-float64(rec.AgeYears())/maxAgeYears)
	score += ageScore * recencyWeight

	kmScore := math.Max(0, 1-float64(rec.KM)/maxMileageKM)
	score += kmScore * mileageWeight

	if rec.HasBluetooth() {
		score += featureBonus
	}
	if rec.HasCarPlay() {
		score += featureBonus
	}
	if rec.IsRecentModel() {
		score += recentModelBonus
	}

	return score
}

// Similar finds the records closest to the given one by a bounded-sum
// similarity (max 1.0), excluding the record itself.
func (r *Recommender) Similar(rec types.VehicleRecord, limit int) []types.ScoredVehicle {
	var scored []types.ScoredVehicle
	for _, other := range r.catalog.All() {
		if other.StockID == rec.StockID {
			continue
		}
		scored = append(scored, types.ScoredVehicle{
			Vehicle: other,
			Score:   SimilarityScore(rec, other),
		})
	}
	sortScored(scored)

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// SimilarityScore compares two records: same make +0.4, price within 20%
// +0.3, year within 2 +0.2, matching feature flags +0.05 each.
func SimilarityScore(a, b types.VehicleRecord) float64 {
	score := 0.0

	if strings.EqualFold(a.Make, b.Make) {
		score += similarSameMake
	}

	maxPrice := math.Max(a.Price, b.Price)
	if maxPrice > 0 && math.Abs(a.Price-b.Price)/maxPrice <= 0.2 {
		score += similarPriceBand
	}

	if abs(a.Year-b.Year) <= 2 {
		score += similarYearBand
	}

	if a.HasBluetooth() == b.HasBluetooth() {
		score += similarFeature
	}
	if a.HasCarPlay() == b.HasCarPlay() {
		score += similarFeature
	}

	return score
}

// recommendationReason assembles a human-readable rationale from the active
// preference clauses and the pre-limit survivor count.
func recommendationReason(prefs types.CustomerPreferences, totalMatches int) string {
	var clauses []string

	if prefs.MaxPrice != nil {
		clauses = append(clauses, fmt.Sprintf("within your budget of $%.0f", *prefs.MaxPrice))
	}
	if len(prefs.PreferredMakes) > 0 {
		clauses = append(clauses, "from preferred brands: "+strings.Join(prefs.PreferredMakes, ", "))
	}
	if prefs.MaxKM != nil {
		clauses = append(clauses, fmt.Sprintf("with less than %d km", *prefs.MaxKM))
	}
	if prefs.MinYear != nil {
		clauses = append(clauses, fmt.Sprintf("manufactured after %d", *prefs.MinYear))
	}

	reason := fmt.Sprintf("Found %d cars", totalMatches)
	if len(clauses) > 0 {
		reason += " " + strings.Join(clauses, " and ")
	}
	return reason
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
