// internal/workers/data-access/query-scholarships/elasticsearch.go
package queryscholarships

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	apperrors "scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSource(client *elasticsearch.Client, index string) *ElasticsearchSource {
	return &ElasticsearchSource{client: client, index: index}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string             `json:"_id"`
			Source models.Scholarship `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildOpenQuery(now time.Time, limit int) map[string]interface{} {
	return map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"deadline": map[string]interface{}{"gte": now.UTC().Format(time.RFC3339)},
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"deadline": map[string]interface{}{"order": "asc"}},
		},
	}
}

func (s *ElasticsearchSource) FetchOpen(ctx context.Context, now time.Time, limit int) ([]models.Scholarship, error) {
	body, err := json.Marshal(buildOpenQuery(now, limit))
	if err != nil {
		return nil, apperrors.NewCandidateFetchFailedError(s.Name(), err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, apperrors.NewCandidateFetchFailedError(s.Name(), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, apperrors.NewCandidateFetchFailedError(s.Name(), fmt.Errorf("search %s: %s", res.Status(), detail))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewCandidateFetchFailedError(s.Name(), fmt.Errorf("decode search response: %w", err))
	}

	results := make([]models.Scholarship, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		sch := hit.Source
		if sch.ID == "" {
			sch.ID = hit.ID
		}
		results = append(results, sch)
	}
	return results, nil
}
