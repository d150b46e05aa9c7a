package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"frequency-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Elasticsearch reads the catalog from a search index whose documents use snake_case fields.
type Elasticsearch struct {
	client     *elasticsearch.Client
	index      string
	maxEntries int
	timeout    time.Duration
}

func NewElasticsearch(client *elasticsearch.Client, index string, maxEntries int, timeout time.Duration) *Elasticsearch {
	return &Elasticsearch{client: client, index: index, maxEntries: maxEntries, timeout: timeout}
}

func (e *Elasticsearch) Name() string { return "elasticsearch" }

func (e *Elasticsearch) FetchCandidates(ctx context.Context) ([]models.Candidate, error) {
	return e.search(ctx, map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":  sortByRange(),
		"size":  e.maxEntries,
	})
}

func (e *Elasticsearch) FindAsset(ctx context.Context, hz float64) (*models.Candidate, error) {
	candidates, err := e.search(ctx, map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"range": map[string]interface{}{"frequency_range_min": map[string]interface{}{"lte": hz}}},
					upperBoundCovers(hz),
				},
			},
		},
		"sort": sortByRange(),
		"size": 1,
	})
	if err != nil || len(candidates) == 0 {
		return nil, err
	}
	return &candidates[0], nil
}

// upperBoundCovers matches documents whose max reaches hz, or whose min equals hz. The
// second arm keeps documents with a missing or inverted max, which toCandidate collapses to min.
func upperBoundCovers(hz float64) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should": []interface{}{
				map[string]interface{}{"range": map[string]interface{}{"frequency_range_max": map[string]interface{}{"gte": hz}}},
				map[string]interface{}{"term": map[string]interface{}{"frequency_range_min": hz}},
			},
			"minimum_should_match": 1,
		},
	}
}

func sortByRange() []interface{} {
	return []interface{}{
		map[string]interface{}{"frequency_range_min": map[string]interface{}{"order": "asc"}},
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string   `json:"_id"`
			Source assetRow `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *Elasticsearch) search(ctx context.Context, body map[string]interface{}) ([]models.Candidate, error) {
	ctx, cancel := boundedContext(ctx, e.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  bytes.NewReader(payload),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", e.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s failed: %s", e.index, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		c := hit.Source.toCandidate()
		if c.ID == "" {
			c.ID = hit.ID
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
