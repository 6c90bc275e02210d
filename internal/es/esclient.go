package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/glowmart/shopcore/internal/config"
	"github.com/glowmart/shopcore/internal/models"
)

// NewClient connects to Elasticsearch when ES_URL is configured; a nil
// client disables search and indexing.
func NewClient(cfg *config.Config, log *slog.Logger) (*elasticsearch.Client, error) {
	if cfg.ES_URL == "" {
		log.Info("elasticsearch disabled, no ES_URL configured")
		return nil, nil
	}

	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ES_URL},
		Username:  cfg.ES_USER,
		Password:  cfg.ES_PASSWORD,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: %s: %s", res.Status(), body)
	}

	log.Info("connected to elasticsearch", "url", cfg.ES_URL)
	return client, nil
}

// Indexer mirrors catalog writes into the product search index. All methods
// are nil-safe no-ops when search is disabled.
type Indexer struct {
	Client *elasticsearch.Client
	Index  string
}

func (ix *Indexer) Enabled() bool {
	return ix != nil && ix.Client != nil
}

func (ix *Indexer) IndexProduct(ctx context.Context, p models.Product) error {
	if !ix.Enabled() {
		return nil
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("encode product %q: %w", p.ID, err)
	}
	res, err := ix.Client.Index(ix.Index, &buf,
		ix.Client.Index.WithContext(ctx),
		ix.Client.Index.WithDocumentID(p.ID),
	)
	if err != nil {
		return fmt.Errorf("index product %q: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %q: %s", p.ID, res.Status())
	}
	return nil
}

func (ix *Indexer) DeleteProduct(ctx context.Context, id string) error {
	if !ix.Enabled() {
		return nil
	}
	res, err := ix.Client.Delete(ix.Index, id, ix.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %q from index: %w", id, err)
	}
	defer res.Body.Close()
	// 404 just means the product was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product %q from index: %s", id, res.Status())
	}
	return nil
}
