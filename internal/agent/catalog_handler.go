package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/catalog"
	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/scoring"
	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

// VehicleRetriever is the semantic catalog search capability. Optional: when
// absent the handler falls back to the scoring engine.
type VehicleRetriever interface {
	TopK(ctx context.Context, query string, k int) ([]types.ScoredVehicle, error)
}

// CatalogHandler searches the catalog for the top-K records matching the
// query and asks the generation capability to recommend only from that set.
type CatalogHandler struct {
	provider llm.Provider
	store    *catalog.Store
	semantic VehicleRetriever
	topK     int
}

func NewCatalogHandler(provider llm.Provider, store *catalog.Store, semantic VehicleRetriever, topK int) *CatalogHandler {
	if topK <= 0 {
		topK = 3
	}
	return &CatalogHandler{provider: provider, store: store, semantic: semantic, topK: topK}
}

func (h *CatalogHandler) Handle(ctx context.Context, query, history string) *Result {
	cars := h.search(ctx, query)

	var catalogContext string
	if len(cars) > 0 {
		catalogContext = formatCatalogBlock(cars)
	} else {
		catalogContext = "No cars matched the query. Suggest asking for a make, model or budget."
	}

	response, err := h.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(catalogSystemPrompt, catalogContext)},
		userMessage(query, history),
	})
	if err != nil {
		utils.Zlog.Warn("Catalog handler generation failed", zap.Error(err))
		return &Result{Text: h.fallbackText(cars), Cars: cars}
	}

	utils.Zlog.Debug("Catalog handler responded", zap.Int("cars", len(cars)))
	return &Result{Text: response, Cars: cars}
}

// search prefers the semantic index when one is configured and degrades to
// keyword then fuzzy matching on any failure or absence.
func (h *CatalogHandler) search(ctx context.Context, query string) []types.VehicleRecord {
	if h.semantic != nil {
		scored, err := h.semantic.TopK(ctx, query, h.topK)
		if err == nil {
			return vehicles(scored)
		}
		utils.Zlog.Warn("Semantic catalog search failed, falling back to keyword match", zap.Error(err))
	}

	records := h.store.All()
	scored := scoring.SearchByText(records, query)
	if len(scored) == 0 {
		scored = scoring.FuzzySearchMakeModel(records, query)
	}
	if len(scored) > h.topK {
		scored = scored[:h.topK]
	}
	return vehicles(scored)
}

func (h *CatalogHandler) fallbackText(cars []types.VehicleRecord) string {
	if len(cars) == 0 {
		return catalogFallbackResponse
	}
	var b strings.Builder
	b.WriteString("Here is what I found in our catalog:\n")
	for i, car := range cars {
		fmt.Fprintf(&b, "%d. %d %s %s - %s, %d km\n", i+1, car.Year, car.Make, car.Model, car.FormattedPrice(), car.KM)
	}
	b.WriteString("Every car includes a warranty and a 7-day trial period.")
	return b.String()
}

func formatCatalogBlock(cars []types.VehicleRecord) string {
	var b strings.Builder
	b.WriteString("Available cars:\n")
	for _, car := range cars {
		fmt.Fprintf(&b, "- %s %s %d (%s) - %s, %d km\n",
			car.Make, car.Model, car.Year, car.Version, car.FormattedPrice(), car.KM)
	}
	return b.String()
}

func vehicles(scored []types.ScoredVehicle) []types.VehicleRecord {
	out := make([]types.VehicleRecord, len(scored))
	for i, sv := range scored {
		out[i] = sv.Vehicle
	}
	return out
}
