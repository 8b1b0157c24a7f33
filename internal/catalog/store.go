package catalog

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

// Store holds the in-memory vehicle catalog. The record set is loaded once at
// startup and treated as read-only; Replace swaps the whole snapshot
// atomically, so concurrent readers never need locking.
type Store struct {
	snapshot atomic.Value // []types.VehicleRecord
}

func NewStore(records []types.VehicleRecord) *Store {
	s := &Store{}
	s.Replace(records)
	return s
}

// Replace atomically swaps the full record set.
func (s *Store) Replace(records []types.VehicleRecord) {
	if records == nil {
		records = []types.VehicleRecord{}
	}
	s.snapshot.Store(records)
	utils.Zlog.Info("Catalog snapshot replaced", zap.Int("records", len(records)))
}

// All returns the current snapshot. Callers must treat it as immutable.
func (s *Store) All() []types.VehicleRecord {
	return s.snapshot.Load().([]types.VehicleRecord)
}

// Len returns the number of records in the current snapshot.
func (s *Store) Len() int {
	return len(s.All())
}

// ByStockID looks up a single record by its unique stock id.
func (s *Store) ByStockID(stockID string) (types.VehicleRecord, bool) {
	for _, rec := range s.All() {
		if rec.StockID == stockID {
			return rec, true
		}
	}
	return types.VehicleRecord{}, false
}

// ByName resolves a free-text car name ("honda civic", "vw jetta") to the
// best-matching record. Substring matches on make/model win; otherwise the
// closest fuzzy match above 0.5 is used. Best effort: a miss is not an error.
func (s *Store) ByName(name string) (types.VehicleRecord, bool) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return types.VehicleRecord{}, false
	}

	var best types.VehicleRecord
	bestScore := 0.0
	queryTokens := utils.TokenSet(utils.StripPunctuation(name))

	for _, rec := range s.All() {
		makeModel := strings.ToLower(rec.Make + " " + rec.Model)
		if strings.Contains(makeModel, name) || strings.Contains(name, makeModel) {
			return rec, true
		}
		score := utils.JaccardSimilarity(queryTokens, utils.TokenSet(utils.StripPunctuation(makeModel)))
		if score > bestScore {
			bestScore = score
			best = rec
		}
	}

	if bestScore > 0.5 {
		return best, true
	}
	return types.VehicleRecord{}, false
}

// Search applies the hard preference filters. A record failing any active
// filter is excluded outright, never down-scored.
func (s *Store) Search(prefs types.CustomerPreferences) []types.VehicleRecord {
	var matched []types.VehicleRecord

	for _, rec := range s.All() {
		if prefs.MinPrice != nil && rec.Price < *prefs.MinPrice {
			continue
		}
		if prefs.MaxPrice != nil && rec.Price > *prefs.MaxPrice {
			continue
		}
		if len(prefs.PreferredMakes) > 0 && !matchesMake(rec.Make, prefs.PreferredMakes) {
			continue
		}
		if prefs.MaxKM != nil && rec.KM > *prefs.MaxKM {
			continue
		}
		if prefs.MinYear != nil && rec.Year < *prefs.MinYear {
			continue
		}
		if prefs.MaxYear != nil && rec.Year > *prefs.MaxYear {
			continue
		}
		if !hasRequiredFeatures(rec, prefs.RequiredFeatures) {
			continue
		}
		matched = append(matched, rec)
	}

	return matched
}

func matchesMake(make string, preferred []string) bool {
	for _, p := range preferred {
		if strings.EqualFold(strings.TrimSpace(p), make) {
			return true
		}
	}
	return false
}

func hasRequiredFeatures(rec types.VehicleRecord, features []string) bool {
	for _, feature := range features {
		f := strings.ToLower(feature)
		switch {
		case strings.Contains(f, "bluetooth"):
			if !rec.HasBluetooth() {
				return false
			}
		case strings.Contains(f, "carplay") || strings.Contains(f, "car play"):
			if !rec.HasCarPlay() {
				return false
			}
		}
	}
	return true
}
