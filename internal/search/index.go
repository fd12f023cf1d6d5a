// Package search keeps a local Elasticsearch index of the catalog so the
// storefront can offer fuzzy product search, which the backend API lacks.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/liquorlane/liquorfront/internal/models"
)

type Index struct {
	es    *elasticsearch.Client
	index string
}

func New(url, username, password, index string) (*Index, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}

	return &Index{es: client, index: index}, nil
}

// IndexProducts writes the current catalog snapshot into the index, one
// document per product keyed by ID so re-indexing overwrites in place.
func (i *Index) IndexProducts(ctx context.Context, products []models.Product) error {
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode product %d: %w", p.ID, err)
		}

		res, err := i.es.Index(
			i.index,
			bytes.NewReader(data),
			i.es.Index.WithDocumentID(strconv.Itoa(p.ID)),
			i.es.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("index product %d: %w", p.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index product %d: %s", p.ID, res.Status())
		}
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		products[n] = hit.Source
	}
	return r.Hits.Total.Value, products, nil
}
