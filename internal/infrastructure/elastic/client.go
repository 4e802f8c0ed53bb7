package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

var indexMappings = map[string]map[string]interface{}{
	search.TasksIndex: {
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":       map[string]string{"type": "text"},
				"description": map[string]string{"type": "text"},
				"status":      map[string]string{"type": "keyword"},
				"assignee":    map[string]string{"type": "keyword"},
				"created_at":  map[string]string{"type": "date"},
				"updated_at":  map[string]string{"type": "date"},
			},
		},
	},
	search.CommentsIndex: {
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"text":       map[string]string{"type": "text"},
				"task":       map[string]string{"type": "keyword"},
				"author":     map[string]string{"type": "keyword"},
				"created_at": map[string]string{"type": "date"},
				"updated_at": map[string]string{"type": "date"},
			},
		},
	},
}

var indexNames = []string{search.TasksIndex, search.CommentsIndex}

// Client indexes and queries task and comment documents in Elasticsearch
type Client struct {
	es     *elasticsearch.Client
	logger logger.Logger
}

// NewClient creates an Elasticsearch client for the configured cluster. No request is made.
func NewClient(settings *config.SearchSettings, logger logger.Logger) (*Client, error) {
	return newClient(settings, logger, nil)
}

func newClient(settings *config.SearchSettings, logger logger.Logger, transport http.RoundTripper) (*Client, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: settings.Addresses,
		Username:  settings.Username,
		Password:  settings.Password,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	return &Client{es: es, logger: logger}, nil
}

// EnsureIndices creates missing indices and leaves existing ones untouched
func (c *Client) EnsureIndices(ctx context.Context) error {
	for _, name := range indexNames {
		res, err := c.es.Indices.Exists([]string{name}, c.es.Indices.Exists.WithContext(ctx))
		if err := c.check(res, err, "check index "+name, http.StatusNotFound); err != nil {
			return err
		}
		drain(res)
		if res.StatusCode == http.StatusOK {
			c.logger.Debug("Search index ", name, " already exists")
			continue
		}
		if err := c.createIndex(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// RecreateIndices drops and creates every index
func (c *Client) RecreateIndices(ctx context.Context) error {
	for _, name := range indexNames {
		res, err := c.es.Indices.Delete([]string{name},
			c.es.Indices.Delete.WithContext(ctx),
			c.es.Indices.Delete.WithIgnoreUnavailable(true),
		)
		if err := c.check(res, err, "delete index "+name, http.StatusNotFound); err != nil {
			return err
		}
		drain(res)
		c.logger.Info("Deleted search index ", name)

		if err := c.createIndex(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) createIndex(ctx context.Context, name string) error {
	res, err := c.es.Indices.Create(name,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(esutil.NewJSONReader(indexMappings[name])),
	)
	if err := c.check(res, err, "create index "+name); err != nil {
		return err
	}
	drain(res)
	c.logger.Info("Created search index ", name)
	return nil
}

func (c *Client) IndexTask(ctx context.Context, task *tasks.Task) error {
	return c.index(ctx, search.TasksIndex, task.ID, search.NewTaskDocument(task))
}

func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	return c.delete(ctx, search.TasksIndex, id)
}

func (c *Client) IndexComment(ctx context.Context, comment *tasks.Comment) error {
	return c.index(ctx, search.CommentsIndex, comment.ID, search.NewCommentDocument(comment))
}

func (c *Client) DeleteComment(ctx context.Context, id uint) error {
	return c.delete(ctx, search.CommentsIndex, id)
}

func (c *Client) index(ctx context.Context, index string, id uint, doc interface{}) error {
	res, err := c.es.Index(index, esutil.NewJSONReader(doc),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(search.DocumentID(id)),
	)
	if err := c.check(res, err, fmt.Sprintf("index %s document %d", index, id)); err != nil {
		return err
	}
	drain(res)
	return nil
}

func (c *Client) delete(ctx context.Context, index string, id uint) error {
	res, err := c.es.Delete(index, search.DocumentID(id), c.es.Delete.WithContext(ctx))
	if err := c.check(res, err, fmt.Sprintf("delete %s document %d", index, id), http.StatusNotFound); err != nil {
		return err
	}
	drain(res)
	return nil
}

// BulkIndex loads the documents with the bulk API and refreshes the indices afterwards
func (c *Client) BulkIndex(ctx context.Context, taskList []*tasks.Task, comments []*tasks.Comment) error {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     c.es,
		NumWorkers: 1,
		FlushBytes: 5 << 20,
		Refresh:    "true",
		OnError: func(_ context.Context, err error) {
			c.logger.Error("Bulk indexing request failed: ", err)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	onFailure := func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
		if err != nil {
			c.logger.Error("Failed to index ", item.Index, " document ", item.DocumentID, ": ", err)
			return
		}
		c.logger.Error("Failed to index ", item.Index, " document ", item.DocumentID, ": ", res.Error.Type, " ", res.Error.Reason)
	}

	add := func(index string, id uint, doc interface{}) error {
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return bi.Add(ctx, esutil.BulkIndexerItem{
			Index:      index,
			Action:     "index",
			DocumentID: search.DocumentID(id),
			Body:       bytes.NewReader(raw),
			OnFailure:  onFailure,
		})
	}

	for _, t := range taskList {
		if err := add(search.TasksIndex, t.ID, search.NewTaskDocument(t)); err != nil {
			return fmt.Errorf("failed to queue task %d: %w", t.ID, err)
		}
	}
	for _, cm := range comments {
		if err := add(search.CommentsIndex, cm.ID, search.NewCommentDocument(cm)); err != nil {
			return fmt.Errorf("failed to queue comment %d: %w", cm.ID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to flush bulk indexer: %w", err)
	}

	stats := bi.Stats()
	c.logger.Info(fmt.Sprintf("Indexed %d documents (%d failed)", stats.NumFlushed, stats.NumFailed))
	if stats.NumFailed > 0 {
		return fmt.Errorf("bulk indexing failed for %d documents", stats.NumFailed)
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                 `json:"_id"`
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a multi_match over title and description for tasks, or a match on text for comments
func (c *Client) Search(ctx context.Context, target search.Target, query string) ([]search.Hit, error) {
	var (
		index string
		body  map[string]interface{}
	)
	switch target {
	case search.TargetTask:
		index = search.TasksIndex
		body = map[string]interface{}{
			"query": map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  query,
					"fields": []string{"title", "description"},
				},
			},
		}
	case search.TargetComment:
		index = search.CommentsIndex
		body = map[string]interface{}{
			"query": map[string]interface{}{
				"match": map[string]interface{}{"text": query},
			},
		}
	default:
		return nil, search.ErrInvalidTarget
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(esutil.NewJSONReader(body)),
	)
	if err := c.check(res, err, "search "+index); err != nil {
		return nil, err
	}
	defer drain(res)

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]search.Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hit := search.Hit{}
		for k, v := range h.Source {
			hit[k] = v
		}
		hit["id"] = h.ID
		hits = append(hits, hit)
	}
	return hits, nil
}

// check turns a transport error or an error status into an error. Statuses in
// allowed are accepted. Error bodies are consumed; callers close successful ones.
func (c *Client) check(res *esapi.Response, err error, op string, allowed ...int) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, search.ErrClusterUnavailable, err)
	}
	if !res.IsError() {
		return nil
	}
	for _, code := range allowed {
		if res.StatusCode == code {
			return nil
		}
	}

	msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	drain(res)
	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s: %w: %s %s", op, search.ErrClusterUnavailable, res.Status(), msg)
	}
	return fmt.Errorf("%s: %s %s", op, res.Status(), msg)
}

func drain(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}

var _ search.Indexer = (*Client)(nil)
var _ search.Searcher = (*Client)(nil)
