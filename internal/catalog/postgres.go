package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/types"
	"github.com/motoria/dealer-agent/internal/utils"
)

// PostgresClient loads the vehicle catalog from a Postgres table. It is an
// alternative to the CSV source for deployments where inventory lives in the
// dealer database.
type PostgresClient struct {
	dsn  string
	pool *pgxpool.Pool
}

func NewPostgresClient(dsn string) (*PostgresClient, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Postgres DSN: %w", err)
	}

	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = 60 * time.Minute
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.ConnectConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	utils.Zlog.Info("Connected to Postgres catalog source")
	return &PostgresClient{dsn: dsn, pool: pool}, nil
}

func (c *PostgresClient) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// LoadVehicles reads all vehicle rows. A row that fails to scan is skipped
// with a logged warning, mirroring the CSV loader's policy.
func (c *PostgresClient) LoadVehicles(ctx context.Context) ([]types.VehicleRecord, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT stock_id, make, model, COALESCE(version, ''), year, price, km,
		       bluetooth, car_play, length_mm, width_mm, height_mm
		FROM vehicles`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	var records []types.VehicleRecord
	skipped := 0
	for rows.Next() {
		var rec types.VehicleRecord
		err := rows.Scan(&rec.StockID, &rec.Make, &rec.Model, &rec.Version,
			&rec.Year, &rec.Price, &rec.KM,
			&rec.Bluetooth, &rec.CarPlay, &rec.Length, &rec.Width, &rec.Height)
		if err != nil {
			skipped++
			utils.Zlog.Warn("Skipping unreadable vehicle row", zap.Error(err))
			continue
		}
		if rec.Year < 2000 || rec.Year > 2030 || rec.Price < 0 || rec.KM < 0 {
			skipped++
			utils.Zlog.Warn("Skipping implausible vehicle row",
				zap.String("stock_id", rec.StockID),
				zap.Int("year", rec.Year))
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vehicles: %w", err)
	}

	utils.Zlog.Info("Loaded catalog from Postgres",
		zap.Int("valid_records", len(records)),
		zap.Int("skipped", skipped))

	return records, nil
}
