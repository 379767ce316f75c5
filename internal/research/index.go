// internal/research/index.go
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/models"
)

const DefaultInsightIndex = "ai-insights"

const insightIndexMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "queryType":    {"type": "keyword"},
      "queryText":    {"type": "text"},
      "content":      {"type": "text"},
      "citations":    {"type": "keyword"},
      "confidence":   {"type": "float"},
      "week":         {"type": "integer"},
      "isActionable": {"type": "boolean"},
      "model":        {"type": "keyword"},
      "createdAt":    {"type": "date"}
    }
  }
}`

// IndexedInsight is the search document for an insight.
type IndexedInsight struct {
	ID           string          `json:"id"`
	QueryType    models.Category `json:"queryType"`
	QueryText    string          `json:"queryText"`
	Content      string          `json:"content"`
	Citations    []string        `json:"citations"`
	Confidence   float64         `json:"confidence"`
	Week         int             `json:"week"`
	IsActionable bool            `json:"isActionable"`
	Model        string          `json:"model,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// InsightIndex mirrors persisted insights into Elasticsearch for full-text search.
type InsightIndex struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewInsightIndex(es *elasticsearch.Client, index string, log logger.Logger) *InsightIndex {
	if index == "" {
		index = DefaultInsightIndex
	}
	return &InsightIndex{
		es:     es,
		index:  index,
		logger: logger.ForComponent(log, "insight-index"),
	}
}

func (x *InsightIndex) Name() string {
	return "elasticsearch"
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (x *InsightIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("check index %s: %w", x.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: %s", x.index, res.Status())
	}

	res, err = esapi.IndicesCreateRequest{
		Index: x.index,
		Body:  strings.NewReader(insightIndexMapping),
	}.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("create index %s: %w", x.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.index, readError(res.Body))
	}
	x.logger.Info("insight index created", map[string]interface{}{"index": x.index})
	return nil
}

// Publish indexes insight using its ID as the document ID.
func (x *InsightIndex) Publish(ctx context.Context, insight *Insight) error {
	doc := toIndexed(insight)
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal insight: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: insight.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, x.es)
	if err != nil {
		return fmt.Errorf("index insight %s: %w", insight.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index insight %s: %s", insight.ID, readError(res.Body))
	}
	return nil
}

// Search finds insights matching text, newest first. Empty text matches all;
// an empty category matches every category.
func (x *InsightIndex) Search(ctx context.Context, text string, category models.Category, limit int) ([]IndexedInsight, error) {
	limit = NormalizeLimit(limit)
	query := buildSearchQuery(text, category)
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal search: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{x.index},
		Body:  bytes.NewReader(body),
		Size:  &limit,
	}.Do(ctx, x.es)
	if err != nil {
		return nil, fmt.Errorf("search insights: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search insights: %s", readError(res.Body))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source IndexedInsight `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]IndexedInsight, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func buildSearchQuery(text string, category models.Category) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if t := strings.TrimSpace(text); t != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  t,
				"fields": []string{"content^2", "queryText"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if category != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"queryType": string(category)},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
	}
}

func toIndexed(in *Insight) IndexedInsight {
	doc := IndexedInsight{
		ID:           in.ID,
		QueryType:    in.QueryType,
		QueryText:    in.QueryText,
		Citations:    []string{},
		Confidence:   in.Confidence,
		Week:         in.Week,
		IsActionable: in.IsActionable,
		CreatedAt:    in.CreatedAt,
	}
	var r Result
	if err := json.Unmarshal([]byte(in.ResponseJSON), &r); err == nil {
		doc.Content = r.Content
		doc.Model = r.Model
		if r.Citations != nil {
			doc.Citations = r.Citations
		}
	}
	return doc
}

func readError(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	return string(data)
}
