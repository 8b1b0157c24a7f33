package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

// fuzzyThreshold is the minimum Jaccard similarity for a fuzzy make/model hit.
const fuzzyThreshold = 0.5

// makeModelSynonyms maps long brand spellings to the short forms customers
// actually type. Applied to both sides before comparing.
var makeModelSynonyms = map[string]string{
	"volkswagen":    "vw",
	"chevrolet":     "chevy",
	"mercedes benz": "mercedes",
	"land rover":    "landrover",
}

// TextMatchScore scores a record against a free-text query. The score is the
// fraction of query tokens found as substrings of the record's searchable
// text (make, model, version, year).
func TextMatchScore(rec types.VehicleRecord, query string) float64 {
	tokens := utils.Tokenize(query)
	if len(tokens) == 0 {
		return 0
	}

	searchable := strings.ToLower(fmt.Sprintf("%s %s %s %d", rec.Make, rec.Model, rec.Version, rec.Year))

	hits := 0
	for _, tok := range tokens {
		if strings.Contains(searchable, tok) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

// SearchByText ranks records by keyword relevance. Records scoring 0 are
// excluded; ties break on ascending stock id so results are reproducible.
func SearchByText(records []types.VehicleRecord, query string) []types.ScoredVehicle {
	var matched []types.ScoredVehicle
	for _, rec := range records {
		if score := TextMatchScore(rec, query); score > 0 {
			matched = append(matched, types.ScoredVehicle{Vehicle: rec, Score: score})
		}
	}
	sortScored(matched)
	return matched
}

// NormalizeMakeModel lowercases, applies the synonym table and strips
// punctuation, so that "Volkswagen Jetta!" and "vw jetta" compare equal.
func NormalizeMakeModel(text string) string {
	normalized := strings.ToLower(text)
	for long, short := range makeModelSynonyms {
		normalized = strings.ReplaceAll(normalized, long, short)
	}
	return utils.StripPunctuation(normalized)
}

// FuzzyScore computes the Jaccard similarity of the normalized token sets of
// a query and a record's "make model" text.
func FuzzyScore(query, target string) float64 {
	return utils.JaccardSimilarity(
		utils.TokenSet(NormalizeMakeModel(query)),
		utils.TokenSet(NormalizeMakeModel(target)),
	)
}

// FuzzySearchMakeModel is the fallback when keyword search finds nothing.
// Only records scoring above the 0.5 threshold are kept.
func FuzzySearchMakeModel(records []types.VehicleRecord, query string) []types.ScoredVehicle {
	var matched []types.ScoredVehicle
	for _, rec := range records {
		score := FuzzyScore(query, rec.Make+" "+rec.Model)
		if score > fuzzyThreshold {
			matched = append(matched, types.ScoredVehicle{Vehicle: rec, Score: score})
		}
	}
	sortScored(matched)
	return matched
}

// sortScored orders by score descending with ascending stock id as the
// deterministic secondary key.
func sortScored(scored []types.ScoredVehicle) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Vehicle.StockID < scored[j].Vehicle.StockID
	})
}
