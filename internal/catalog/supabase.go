package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"frequency-workers/internal/models"

	"github.com/supabase-community/postgrest-go"
)

// Supabase reads the catalog through the hosted PostgREST API the booking app uses.
type Supabase struct {
	client     *postgrest.Client
	table      string
	maxEntries int
	timeout    time.Duration
}

func NewSupabase(client *postgrest.Client, table string, maxEntries int, timeout time.Duration) *Supabase {
	return &Supabase{client: client, table: table, maxEntries: maxEntries, timeout: timeout}
}

func (s *Supabase) Name() string { return "supabase" }

var ascending = &postgrest.OrderOpts{Ascending: true}

func (s *Supabase) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	query := s.client.From(s.table).
		Select("*", "", false).
		Order("frequency_range_min", ascending)
	if s.maxEntries > 0 {
		query = query.Limit(s.maxEntries, "")
	}

	rows, err := s.execute(ctx, query)
	if err != nil {
		return nil, err
	}
	candidates := make([]models.Candidate, len(rows))
	for i, r := range rows {
		candidates[i] = r.toCandidate()
	}
	return candidates, nil
}

// FindAsset keeps rows whose max is unset or below min when min equals hz, matching the
// range toCandidate produces for them.
func (s *Supabase) FindAsset(ctx context.Context, hz float64) (*models.Candidate, error) {
	v := strconv.FormatFloat(hz, 'f', -1, 64)
	query := s.client.From(s.table).
		Select("*", "", false).
		Lte("frequency_range_min", v).
		Or(fmt.Sprintf("frequency_range_max.gte.%s,frequency_range_min.eq.%s", v, v), "").
		Order("frequency_range_min", ascending).
		Limit(1, "")

	rows, err := s.execute(ctx, query)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	c := rows[0].toCandidate()
	return &c, nil
}

// execute runs query under the fetch timeout. postgrest-go takes no context, so the call
// is abandoned rather than cancelled when ctx ends first.
func (s *Supabase) execute(ctx context.Context, query *postgrest.FilterBuilder) ([]assetRow, error) {
	ctx, cancel := boundedContext(ctx, s.timeout)
	defer cancel()

	type result struct {
		rows []assetRow
		err  error
	}
	done := make(chan result, 1)
	go func() {
		var rows []assetRow
		_, err := query.ExecuteTo(&rows)
		done <- result{rows: rows, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("supabase %s: %w", s.table, r.err)
		}
		return r.rows, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("supabase %s: %w", s.table, ctx.Err())
	}
}
