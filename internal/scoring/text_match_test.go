package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motoria/dealer-agent/internal/types"
)

func vehicle(stockID, make, model string, year int) types.VehicleRecord {
	return types.VehicleRecord{StockID: stockID, Make: make, Model: model, Year: year}
}

func TestTextMatchScore(t *testing.T) {
	civic := types.VehicleRecord{StockID: "1", Make: "Honda", Model: "Civic", Version: "LX", Year: 2020}
	corolla := types.VehicleRecord{StockID: "2", Make: "Toyota", Model: "Corolla", Version: "LE", Year: 2019}

	require.Equal(t, 1.0, TextMatchScore(civic, "civic 2020"))
	require.Equal(t, 0.0, TextMatchScore(corolla, "civic 2020"))
	require.Equal(t, 0.5, TextMatchScore(corolla, "civic 2019"))
	require.Equal(t, 0.0, TextMatchScore(civic, ""))
}

func TestSearchByText_ExcludesZeroAndRanks(t *testing.T) {
	records := []types.VehicleRecord{
		vehicle("3", "Toyota", "Corolla", 2019),
		vehicle("1", "Honda", "Civic", 2020),
		vehicle("2", "Honda", "Accord", 2020),
	}

	results := SearchByText(records, "honda civic")
	require.Len(t, results, 2)
	require.Equal(t, "Civic", results[0].Vehicle.Model)
	require.Equal(t, 1.0, results[0].Score)
	require.Equal(t, "Accord", results[1].Vehicle.Model)
	require.Equal(t, 0.5, results[1].Score)
}

func TestSearchByText_TieBreaksOnStockID(t *testing.T) {
	records := []types.VehicleRecord{
		vehicle("B", "Honda", "Civic", 2020),
		vehicle("A", "Honda", "Civic", 2020),
	}

	results := SearchByText(records, "civic")
	require.Len(t, results, 2)
	require.Equal(t, "A", results[0].Vehicle.StockID)
	require.Equal(t, "B", results[1].Vehicle.StockID)
}

func TestFuzzyScore_Synonyms(t *testing.T) {
	require.Equal(t, 1.0, FuzzyScore("vw jetta", "Volkswagen Jetta"))
	require.Equal(t, 1.0, FuzzyScore("chevy aveo", "Chevrolet Aveo"))
	require.Equal(t, 1.0, FuzzyScore("Volkswagen Jetta!", "vw jetta"))
}

func TestFuzzySearchMakeModel_Threshold(t *testing.T) {
	records := []types.VehicleRecord{
		vehicle("1", "Honda", "Civic", 2020),
		vehicle("2", "Volkswagen", "Jetta", 2021),
	}

	results := FuzzySearchMakeModel(records, "vw jetta")
	require.Len(t, results, 1)
	require.Equal(t, "2", results[0].Vehicle.StockID)

	// Jaccard of {honda} vs {honda, civic} is exactly 0.5: below the
	// strict threshold, so no match.
	require.Empty(t, FuzzySearchMakeModel(records, "honda"))
}
