package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ticket-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// SearchIndexer mirrors tickets into an Elasticsearch index for full-text lookup.
type SearchIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndexer(client *elasticsearch.Client, index string) *SearchIndexer {
	return &SearchIndexer{client: client, index: index}
}

type ticketDocument struct {
	ID            string   `json:"id"`
	CustomerID    string   `json:"customerId"`
	CustomerEmail string   `json:"customerEmail"`
	Subject       string   `json:"subject"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Priority      string   `json:"priority"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags"`
	CreatedAt     string   `json:"createdAt"`
}

func (s *SearchIndexer) Index(ctx context.Context, t *models.Ticket) error {
	body, err := json.Marshal(ticketDocument{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		CustomerEmail: t.CustomerEmail,
		Subject:       t.Subject,
		Description:   t.Description,
		Category:      string(t.Category),
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		Tags:          t.Tags,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode ticket document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: t.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index ticket %s: %w", t.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index ticket %s: %s", t.ID, res.Status())
	}
	return nil
}

// Delete removes the document; a missing document is not an error.
func (s *SearchIndexer) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: s.index, DocumentID: id}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("delete ticket document %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete ticket document %s: %s", id, res.Status())
	}
	return nil
}

// Search runs a full-text query over subject and description and returns
// matching ticket ids ordered by relevance.
func (s *SearchIndexer) Search(ctx context.Context, text string, size int) ([]string, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"subject^2", "description", "tags"},
				"type":   "best_fields",
			},
		},
		"_source": []string{"id"},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search tickets: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search tickets: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
