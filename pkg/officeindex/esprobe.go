package officeindex

import (
	"context"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
)

// ExtractorProbe checks whether the configured external extractor backend
// is reachable, purely for /health reporting. It never substitutes for the
// extraction HTTP call itself, which stays a direct net/http POST so its
// request/response shape matches the ingest-attachment pipeline contract.
type ExtractorProbe struct {
	client *elasticsearch.Client
}

// NewExtractorProbe builds a probe from cfg. Returns nil when no external
// extractor URL is configured.
func NewExtractorProbe(cfg Config) (*ExtractorProbe, error) {
	if cfg.OpenSearchURL == "" {
		return nil, nil
	}

	esCfg := elasticsearch.Config{Addresses: []string{cfg.OpenSearchURL}}
	if cfg.OpenSearchUsername != "" {
		esCfg.Username = cfg.OpenSearchUsername
		esCfg.Password = cfg.OpenSearchPassword
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, err
	}

	return &ExtractorProbe{client: client}, nil
}

// Reachable pings the backend and reports whether it answered successfully.
func (p *ExtractorProbe) Reachable(ctx context.Context) bool {
	if p == nil {
		return false
	}

	resp, err := p.client.Ping(p.client.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return !resp.IsError()
}
