// Package supabase builds the PostgREST client for the booking app's hosted tables.
package supabase

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
)

// restPath is where Supabase mounts PostgREST under the project URL.
const restPath = "/rest/v1"

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// New returns a postgrest client authenticated with the project's API key. Timeout bounds
// how long a request waits for response headers; zero means no limit.
func New(cfg Config) (*postgrest.Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIKey is required")
	}

	client := postgrest.NewClient(strings.TrimSuffix(cfg.URL, "/")+restPath, "", nil)
	if client.ClientError != nil {
		return nil, fmt.Errorf("parse supabase url: %w", client.ClientError)
	}
	client.SetApiKey(cfg.APIKey).SetAuthToken(cfg.APIKey)
	client.Transport.Parent = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: cfg.Timeout,
	}
	return client, nil
}
