package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

// LoadCSV reads the vehicle catalog from a CSV file. Rows that fail to parse
// are skipped with a logged warning; only a completely unreadable file aborts
// the load.
func LoadCSV(path string) ([]types.VehicleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("catalog file %s has no data rows", path)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"stock_id", "make", "model", "year", "price", "km"} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("catalog file %s is missing column %q", path, required)
		}
	}

	var records []types.VehicleRecord
	for i, row := range rows[1:] {
		rec, err := rowToRecord(header, row)
		if err != nil {
			utils.Zlog.Warn("Skipping invalid catalog row",
				zap.Int("line", i+2),
				zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	utils.Zlog.Info("Loaded catalog from CSV",
		zap.String("path", path),
		zap.Int("valid_records", len(records)),
		zap.Int("total_rows", len(rows)-1))

	return records, nil
}

func rowToRecord(header map[string]int, row []string) (types.VehicleRecord, error) {
	get := func(col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	stockID := get("stock_id")
	if stockID == "" {
		return types.VehicleRecord{}, fmt.Errorf("empty stock_id")
	}

	year, err := strconv.Atoi(get("year"))
	if err != nil {
		return types.VehicleRecord{}, fmt.Errorf("invalid year %q: %w", get("year"), err)
	}
	if year < 2000 || year > 2030 {
		return types.VehicleRecord{}, fmt.Errorf("year %d out of plausible range", year)
	}

	price, err := strconv.ParseFloat(get("price"), 64)
	if err != nil {
		return types.VehicleRecord{}, fmt.Errorf("invalid price %q: %w", get("price"), err)
	}
	if price < 0 {
		return types.VehicleRecord{}, fmt.Errorf("negative price %.2f", price)
	}

	km, err := strconv.Atoi(get("km"))
	if err != nil {
		return types.VehicleRecord{}, fmt.Errorf("invalid km %q: %w", get("km"), err)
	}
	if km < 0 {
		return types.VehicleRecord{}, fmt.Errorf("negative km %d", km)
	}

	rec := types.VehicleRecord{
		StockID:   stockID,
		Make:      titleCase(get("make")),
		Model:     titleCase(get("model")),
		Version:   get("version"),
		Year:      year,
		Price:     price,
		KM:        km,
		Bluetooth: parseBool(get("bluetooth")),
		CarPlay:   parseBool(get("car_play")),
		Length:    parseFloat(get("largo")),
		Width:     parseFloat(get("ancho")),
		Height:    parseFloat(get("altura")),
	}
	return rec, nil
}

// parseBool normalizes the CSV's mixed Spanish/English boolean markers.
// An empty cell stays unknown (nil).
func parseBool(v string) *bool {
	if v == "" {
		return nil
	}
	b := false
	switch strings.ToLower(v) {
	case "sí", "si", "yes", "true", "1":
		b = true
	}
	return &b
}

func parseFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func titleCase(v string) string {
	words := strings.Fields(strings.ToLower(v))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
