package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const writeTimeout = 5 * time.Second

// Execer is the part of a pgx pool PostgresOutput writes through.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresOutput stores session messages in fact tables, one per topic.
type PostgresOutput struct {
	pool *pgxpool.Pool
	db   Execer
}

func NewPostgresOutput(ctx context.Context, url string) (*PostgresOutput, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	p := &PostgresOutput{pool: pool, db: pool}
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgresOutputWith writes through db without owning a pool.
func NewPostgresOutputWith(db Execer) *PostgresOutput {
	return &PostgresOutput{db: db}
}

func (p *PostgresOutput) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS fact_phase_event (
			session_id TEXT NOT NULL,
			region TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			phase TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fact_driver_assignment (
			session_id TEXT PRIMARY KEY,
			region TEXT NOT NULL DEFAULT '',
			driver_name TEXT NOT NULL,
			photo_url TEXT NOT NULL,
			rating DOUBLE PRECISION NOT NULL,
			completed_deliveries INTEGER NOT NULL,
			vehicle TEXT NOT NULL,
			distance_km DOUBLE PRECISION NOT NULL,
			location TEXT NOT NULL,
			avg_delivery_minutes INTEGER NOT NULL,
			departure_time TIMESTAMPTZ NOT NULL,
			arrival_time TIMESTAMPTZ NOT NULL,
			fallback BOOLEAN NOT NULL,
			assigned_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate output tables: %w", err)
		}
	}
	return nil
}

type phaseEventRow struct {
	SessionID string       `json:"session_id"`
	Region    string       `json:"region"`
	Kind      string       `json:"kind"`
	Phase     models.Phase `json:"phase"`
	Timestamp int64        `json:"timestamp"`
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	table := topicToTable(topic)
	switch topic {
	case models.TopicPhaseEvents:
		var ev phaseEventRow
		if err := json.Unmarshal(msg, &ev); err != nil {
			return fmt.Errorf("invalid phase event: %w", err)
		}
		_, err := p.db.Exec(ctx,
			`INSERT INTO `+table+` (session_id, region, kind, phase, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
			ev.SessionID, ev.Region, ev.Kind, string(ev.Phase), time.Unix(ev.Timestamp, 0).UTC())
		return wrapInsertErr(table, err)

	case models.TopicDriverAssignments:
		var a models.Assignment
		if err := json.Unmarshal(msg, &a); err != nil {
			return fmt.Errorf("invalid assignment: %w", err)
		}
		_, err := p.db.Exec(ctx,
			`INSERT INTO `+table+` (session_id, region, driver_name, photo_url, rating, completed_deliveries,
				vehicle, distance_km, location, avg_delivery_minutes, departure_time, arrival_time, fallback, assigned_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (session_id) DO NOTHING`,
			a.SessionID, a.RegionHint, a.Driver.Name, a.Driver.PhotoURL, a.Driver.Rating, a.Driver.CompletedDeliveries,
			a.Driver.VehicleDescription, a.Driver.DistanceKm, a.Driver.CurrentLocationLabel, a.Driver.AverageDeliveryMinutes,
			a.Estimate.DepartureTime, a.Estimate.ArrivalTime, a.Fallback, a.AssignedAt)
		return wrapInsertErr(table, err)
	}
	return fmt.Errorf("no table for topic %s", topic)
}

func (p *PostgresOutput) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func topicToTable(topic string) string {
	tableMap := map[string]string{
		models.TopicPhaseEvents:       "fact_phase_event",
		models.TopicDriverAssignments: "fact_driver_assignment",
	}
	if table, ok := tableMap[topic]; ok {
		return table
	}
	return "fact_" + strings.TrimSuffix(topic, "_events")
}

func wrapInsertErr(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrTxClosed) || isRetryableError(err) {
		return fmt.Errorf("transient failure inserting into %s: %w", table, err)
	}
	return fmt.Errorf("failed to insert into %s: %w", table, err)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "57P01":
		return true
	}
	return false
}
