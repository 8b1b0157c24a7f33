package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motoria/dealer-agent/internal/types"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func testCatalog() []types.VehicleRecord {
	return []types.VehicleRecord{
		{StockID: "1", Make: "Honda", Model: "Civic", Year: 2020, Price: 280000, KM: 35000, Bluetooth: boolPtr(true)},
		{StockID: "2", Make: "Volkswagen", Model: "Jetta", Year: 2019, Price: 250000, KM: 60000, CarPlay: boolPtr(true)},
		{StockID: "3", Make: "Toyota", Model: "Corolla", Year: 2021, Price: 310000, KM: 15000},
	}
}

func TestStore_AllAndLen(t *testing.T) {
	store := NewStore(testCatalog())
	require.Equal(t, 3, store.Len())
	require.Len(t, store.All(), 3)
}

func TestStore_Replace(t *testing.T) {
	store := NewStore(testCatalog())
	store.Replace([]types.VehicleRecord{{StockID: "9", Make: "Mazda", Model: "3", Year: 2022, Price: 350000}})
	require.Equal(t, 1, store.Len())

	store.Replace(nil)
	require.Equal(t, 0, store.Len())
}

func TestStore_ByStockID(t *testing.T) {
	store := NewStore(testCatalog())

	rec, ok := store.ByStockID("2")
	require.True(t, ok)
	require.Equal(t, "Jetta", rec.Model)

	_, ok = store.ByStockID("missing")
	require.False(t, ok)
}

func TestStore_ByName(t *testing.T) {
	store := NewStore(testCatalog())

	// Substring match on make/model.
	rec, ok := store.ByName("jetta")
	require.True(t, ok)
	require.Equal(t, "2", rec.StockID)

	// Fuzzy match when word order differs.
	rec, ok = store.ByName("civic honda")
	require.True(t, ok)
	require.Equal(t, "1", rec.StockID)

	_, ok = store.ByName("ferrari f40")
	require.False(t, ok)

	_, ok = store.ByName("")
	require.False(t, ok)
}

func TestStore_SearchPriceBounds(t *testing.T) {
	store := NewStore(testCatalog())

	matched := store.Search(types.CustomerPreferences{
		MinPrice: floatPtr(260000),
		MaxPrice: floatPtr(300000),
	})
	require.Len(t, matched, 1)
	require.Equal(t, "1", matched[0].StockID)
}

func TestStore_SearchPreferredMakes(t *testing.T) {
	store := NewStore(testCatalog())

	matched := store.Search(types.CustomerPreferences{
		PreferredMakes: []string{"toyota", " honda "},
	})
	require.Len(t, matched, 2)
	for _, rec := range matched {
		require.NotEqual(t, "Volkswagen", rec.Make)
	}
}

func TestStore_SearchMaxKMAndYear(t *testing.T) {
	store := NewStore(testCatalog())

	matched := store.Search(types.CustomerPreferences{
		MaxKM:   intPtr(40000),
		MinYear: intPtr(2020),
	})
	require.Len(t, matched, 2)
}

func TestStore_SearchRequiredFeatures(t *testing.T) {
	store := NewStore(testCatalog())

	matched := store.Search(types.CustomerPreferences{
		RequiredFeatures: []string{"Bluetooth"},
	})
	require.Len(t, matched, 1)
	require.Equal(t, "1", matched[0].StockID)

	matched = store.Search(types.CustomerPreferences{
		RequiredFeatures: []string{"CarPlay"},
	})
	require.Len(t, matched, 1)
	require.Equal(t, "2", matched[0].StockID)
}
