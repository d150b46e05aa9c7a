package catalog

import (
	"database/sql"
	"fmt"

	"frequency-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/supabase-community/postgrest-go"
)

// Backends carries whichever store clients the process opened.
type Backends struct {
	Postgres      *sql.DB
	Elasticsearch *elasticsearch.Client
	Supabase      *postgrest.Client
}

// New builds the provider selected by cfg.Backend.
func New(cfg config.CatalogConfig, b Backends) (Provider, error) {
	timeout := config.GetDuration(cfg.FetchTimeout)

	switch cfg.Backend {
	case config.CatalogBackendPostgres:
		if b.Postgres == nil {
			return nil, fmt.Errorf("catalog backend %s: no postgres connection", cfg.Backend)
		}
		return NewPostgres(b.Postgres, cfg.Table, cfg.MaxEntries, timeout), nil
	case config.CatalogBackendElasticsearch:
		if b.Elasticsearch == nil {
			return nil, fmt.Errorf("catalog backend %s: no elasticsearch client", cfg.Backend)
		}
		return NewElasticsearch(b.Elasticsearch, cfg.Index, cfg.MaxEntries, timeout), nil
	case config.CatalogBackendSupabase:
		if b.Supabase == nil {
			return nil, fmt.Errorf("catalog backend %s: no supabase client", cfg.Backend)
		}
		return NewSupabase(b.Supabase, cfg.Table, cfg.MaxEntries, timeout), nil
	case config.CatalogBackendFile:
		return NewFile(cfg.FilePath), nil
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}
