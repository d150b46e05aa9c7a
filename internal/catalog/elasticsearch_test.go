package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newESServer(t *testing.T, status int, body string, seen *map[string]interface{}) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestElasticsearch_FetchCandidates(t *testing.T) {
	var query map[string]interface{}
	client := newESServer(t, http.StatusOK, `{
		"hits": {"total": {"value": 2}, "hits": [
			{"_id": "es-174", "_source": {"name": "Foundation", "frequency_range_min": 174, "frequency_range_max": 174,
				"primary_intentions": ["pain"], "healing_properties": ["Pain relief"], "harmonic_connections": [285]}},
			{"_id": "es-432", "_source": {"id": "a-432", "name": "Earth", "frequency_range_min": 432, "family": "Tuning"}}
		]}}`, &query)

	e := NewElasticsearch(client, "frequency_assets", 50, time.Second)
	got, err := e.FetchCandidates(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "es-174", got[0].ID, "falls back to the document id")
	assert.Equal(t, []int{285}, got[0].HarmonicConnections)
	assert.Equal(t, "a-432", got[1].ID)
	assert.Equal(t, 432.0, got[1].FrequencyRangeMax)
	assert.Equal(t, "Tuning", got[1].Family)

	assert.Contains(t, query["query"], "match_all")
	assert.EqualValues(t, 50, query["size"])
}

func TestElasticsearch_FindAsset_NoHit(t *testing.T) {
	client := newESServer(t, http.StatusOK, `{"hits":{"total":{"value":0},"hits":[]}}`, nil)

	c, err := NewElasticsearch(client, "frequency_assets", 50, time.Second).FindAsset(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestElasticsearch_FindAsset_CollapsedRange(t *testing.T) {
	var query map[string]interface{}
	client := newESServer(t, http.StatusOK, `{
		"hits": {"total": {"value": 1}, "hits": [
			{"_id": "es-285", "_source": {"name": "Regeneration", "frequency_range_min": 285, "frequency_range_max": 0,
				"audio_url": "https://cdn/285.mp3"}}
		]}}`, &query)

	c, err := NewElasticsearch(client, "frequency_assets", 50, time.Second).FindAsset(context.Background(), 285)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "es-285", c.ID)
	assert.True(t, c.Contains(285))

	filters := query["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	require.Len(t, filters, 2)
	upper := filters[1].(map[string]interface{})["bool"].(map[string]interface{})
	assert.EqualValues(t, 1, upper["minimum_should_match"])

	should := upper["should"].([]interface{})
	require.Len(t, should, 2)
	assert.Equal(t, map[string]interface{}{"frequency_range_max": map[string]interface{}{"gte": 285.0}},
		should[0].(map[string]interface{})["range"])
	assert.Equal(t, map[string]interface{}{"frequency_range_min": 285.0},
		should[1].(map[string]interface{})["term"], "rows with an unset max still match their own frequency")
}

func TestElasticsearch_Error(t *testing.T) {
	client := newESServer(t, http.StatusInternalServerError, `{"error":"index_not_found_exception"}`, nil)

	_, err := NewElasticsearch(client, "frequency_assets", 50, time.Second).FetchCandidates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search frequency_assets failed")
}
