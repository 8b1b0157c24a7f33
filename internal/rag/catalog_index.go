package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

type indexedVehicle struct {
	record types.VehicleRecord
	vector []float64
}

// CatalogIndex is an embedding index over catalog records for semantic
// search, built once at startup from the loaded catalog snapshot.
type CatalogIndex struct {
	embedder Embedder
	vehicles []indexedVehicle
}

func NewCatalogIndex(ctx context.Context, records []types.VehicleRecord, embedder Embedder) (*CatalogIndex, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no catalog records to index")
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = vehicleText(rec)
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed catalog: %w", err)
	}

	vehicles := make([]indexedVehicle, len(records))
	for i, rec := range records {
		vehicles[i] = indexedVehicle{record: rec, vector: vectors[i]}
	}

	utils.Zlog.Info("Catalog embedding index built", zap.Int("records", len(vehicles)))
	return &CatalogIndex{embedder: embedder, vehicles: vehicles}, nil
}

// TopK returns the k records most similar to the query.
func (idx *CatalogIndex) TopK(ctx context.Context, query string, k int) ([]types.ScoredVehicle, error) {
	queryVec, err := idx.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored := make([]types.ScoredVehicle, 0, len(idx.vehicles))
	for _, v := range idx.vehicles {
		sim, err := utils.CosineSimilarity(queryVec, v.vector)
		if err != nil {
			continue
		}
		scored = append(scored, types.ScoredVehicle{Vehicle: v.record, Score: sim})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Vehicle.StockID < scored[j].Vehicle.StockID
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// vehicleText renders a record into the text that gets embedded.
func vehicleText(rec types.VehicleRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s year %d version %s price %.0f kilometers %d",
		rec.Make, rec.Model, rec.Year, rec.Version, rec.Price, rec.KM)
	if rec.HasBluetooth() {
		b.WriteString(" bluetooth")
	}
	if rec.HasCarPlay() {
		b.WriteString(" carplay")
	}
	return b.String()
}
