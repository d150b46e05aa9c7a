package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"frequency-workers/internal/models"

	"github.com/lib/pq"
)

const assetColumns = `id::text, name, frequency_range_min, frequency_range_max,
	       primary_intentions, healing_properties, harmonic_connections,
	       COALESCE(family, ''), COALESCE(audio_url, '')`

// Postgres reads the catalog from a frequency_assets style table. Tag columns are JSONB arrays.
type Postgres struct {
	db         *sql.DB
	table      string
	maxEntries int
	timeout    time.Duration
}

func NewPostgres(db *sql.DB, table string, maxEntries int, timeout time.Duration) *Postgres {
	return &Postgres{db: db, table: table, maxEntries: maxEntries, timeout: timeout}
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	ctx, cancel := boundedContext(ctx, p.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY frequency_range_min ASC
		LIMIT $1`, assetColumns, pq.QuoteIdentifier(p.table))

	rows, err := p.db.QueryContext(ctx, query, p.maxEntries)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.table, err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if errors.Is(err, errNoRange) {
			continue
		}
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", p.table, err)
	}
	return candidates, nil
}

func (p *Postgres) FindAsset(ctx context.Context, hz float64) (*models.Candidate, error) {
	ctx, cancel := boundedContext(ctx, p.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE frequency_range_min <= $1
		  AND GREATEST(frequency_range_max, frequency_range_min) >= $1
		ORDER BY frequency_range_min ASC
		LIMIT 1`, assetColumns, pq.QuoteIdentifier(p.table))

	c, err := scanCandidate(p.db.QueryRowContext(ctx, query, hz))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// errNoRange marks a row without a lower bound; it cannot cover any frequency.
var errNoRange = errors.New("frequency_range_min is NULL")

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidate(s scanner) (models.Candidate, error) {
	var c models.Candidate
	var name sql.NullString
	var rangeMin, rangeMax sql.NullFloat64
	var intentions, properties, harmonics []byte
	err := s.Scan(
		&c.ID, &name, &rangeMin, &rangeMax,
		&intentions, &properties, &harmonics,
		&c.Family, &c.AudioURL,
	)
	if err != nil {
		return c, err
	}
	if !rangeMin.Valid {
		return c, errNoRange
	}
	c.Name = name.String
	c.FrequencyRangeMin = rangeMin.Float64
	c.FrequencyRangeMax = rangeMax.Float64

	// malformed or NULL tag columns leave the candidate without that metadata
	if err := json.Unmarshal(intentions, &c.PrimaryIntentions); err != nil {
		c.PrimaryIntentions = []string{}
	}
	if err := json.Unmarshal(properties, &c.HealingProperties); err != nil {
		c.HealingProperties = []string{}
	}
	if err := json.Unmarshal(harmonics, &c.HarmonicConnections); err != nil {
		c.HarmonicConnections = []int{}
	}
	if !rangeMax.Valid || c.FrequencyRangeMax < c.FrequencyRangeMin {
		c.FrequencyRangeMax = c.FrequencyRangeMin
	}
	return c, nil
}
