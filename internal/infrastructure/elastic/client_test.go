//go:build unit
// +build unit

package elastic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/search"
	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCluster is a minimal Elasticsearch HTTP API holding indices and documents in memory
type fakeCluster struct {
	mu         sync.Mutex
	indices    map[string]map[string]json.RawMessage
	mappings   map[string]json.RawMessage
	lastSearch json.RawMessage
	failBulkID string
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		indices:  make(map[string]map[string]json.RawMessage),
		mappings: make(map[string]json.RawMessage),
	}
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	body, _ := io.ReadAll(r.Body)

	switch {
	case len(parts) == 1 && parts[0] == "_bulk":
		f.bulk(w, body)
	case len(parts) == 2 && parts[1] == "_search":
		f.lastSearch = body
		f.search(w, parts[0])
	case len(parts) == 3 && parts[1] == "_doc":
		f.document(w, r.Method, parts[0], parts[2], body)
	case len(parts) == 1:
		f.index(w, r.Method, parts[0], body)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (f *fakeCluster) index(w http.ResponseWriter, method, name string, body []byte) {
	_, exists := f.indices[name]
	switch method {
	case http.MethodHead:
		if !exists {
			w.WriteHeader(http.StatusNotFound)
		}
	case http.MethodPut:
		if exists {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"type":"resource_already_exists_exception"}}`)
			return
		}
		f.indices[name] = make(map[string]json.RawMessage)
		f.mappings[name] = body
		fmt.Fprint(w, `{"acknowledged":true}`)
	case http.MethodDelete:
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"type":"index_not_found_exception"}}`)
			return
		}
		delete(f.indices, name)
		delete(f.mappings, name)
		fmt.Fprint(w, `{"acknowledged":true}`)
	}
}

func (f *fakeCluster) document(w http.ResponseWriter, method, index, id string, body []byte) {
	docs, ok := f.indices[index]
	if !ok {
		docs = make(map[string]json.RawMessage)
		f.indices[index] = docs
	}
	switch method {
	case http.MethodPut, http.MethodPost:
		docs[id] = body
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"result":"created"}`)
	case http.MethodDelete:
		if _, ok := docs[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"result":"not_found"}`)
			return
		}
		delete(docs, id)
		fmt.Fprint(w, `{"result":"deleted"}`)
	}
}

func (f *fakeCluster) bulk(w http.ResponseWriter, body []byte) {
	type action struct {
		Index struct {
			Index string `json:"_index"`
			ID    string `json:"_id"`
		} `json:"index"`
	}

	var items []string
	hasErrors := false
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	for scanner.Scan() {
		var a action
		if err := json.Unmarshal(scanner.Bytes(), &a); err != nil || !scanner.Scan() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		doc := append(json.RawMessage(nil), scanner.Bytes()...)
		if a.Index.ID == f.failBulkID {
			hasErrors = true
			items = append(items, fmt.Sprintf(`{"index":{"_index":%q,"_id":%q,"status":400,"error":{"type":"mapper_parsing_exception","reason":"bad"}}}`, a.Index.Index, a.Index.ID))
			continue
		}
		if _, ok := f.indices[a.Index.Index]; !ok {
			f.indices[a.Index.Index] = make(map[string]json.RawMessage)
		}
		f.indices[a.Index.Index][a.Index.ID] = doc
		items = append(items, fmt.Sprintf(`{"index":{"_index":%q,"_id":%q,"status":201}}`, a.Index.Index, a.Index.ID))
	}
	fmt.Fprintf(w, `{"took":1,"errors":%t,"items":[%s]}`, hasErrors, strings.Join(items, ","))
}

func (f *fakeCluster) search(w http.ResponseWriter, index string) {
	var hits []string
	for id, doc := range f.indices[index] {
		hits = append(hits, fmt.Sprintf(`{"_index":%q,"_id":%q,"_source":%s}`, index, id, doc))
	}
	fmt.Fprintf(w, `{"hits":{"total":{"value":%d},"hits":[%s]}}`, len(hits), strings.Join(hits, ","))
}

func (f *fakeCluster) docCount(index string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.indices[index])
}

func newTestClient(t *testing.T) (*Client, *fakeCluster) {
	t.Helper()
	cluster := newFakeCluster()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	settings := &config.SearchSettings{
		Addresses:   []string{srv.URL},
		StartupMode: config.SearchModeInit,
		MaxAttempts: 1,
		BulkSize:    100,
	}
	client, err := NewClient(settings, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	return client, cluster
}

func sampleTask() *tasks.Task {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &tasks.Task{ID: 7, Title: "Write report", Description: "Quarterly numbers", Status: tasks.StatusOpen, AssigneeID: 3, CreatedAt: ts, UpdatedAt: ts}
}

func TestClient_EnsureIndices(t *testing.T) {
	client, cluster := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.EnsureIndices(ctx))
	assert.Contains(t, cluster.indices, search.TasksIndex)
	assert.Contains(t, cluster.indices, search.CommentsIndex)
	assert.Contains(t, string(cluster.mappings[search.TasksIndex]), `"assignee":{"type":"keyword"}`)

	require.NoError(t, client.IndexTask(ctx, sampleTask()))

	// existing indices and their documents are kept
	require.NoError(t, client.EnsureIndices(ctx))
	assert.Equal(t, 1, cluster.docCount(search.TasksIndex))
}

func TestClient_RecreateIndices(t *testing.T) {
	client, cluster := newTestClient(t)
	ctx := context.Background()

	// missing indices are not an error
	require.NoError(t, client.RecreateIndices(ctx))
	require.NoError(t, client.IndexTask(ctx, sampleTask()))

	require.NoError(t, client.RecreateIndices(ctx))
	assert.Equal(t, 0, cluster.docCount(search.TasksIndex))
	assert.Contains(t, cluster.indices, search.CommentsIndex)
}

func TestClient_IndexAndDeleteDocuments(t *testing.T) {
	client, cluster := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.EnsureIndices(ctx))

	require.NoError(t, client.IndexTask(ctx, sampleTask()))
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(cluster.indices[search.TasksIndex]["7"], &doc))
	assert.Equal(t, "Write report", doc["title"])
	assert.Equal(t, "3", doc["assignee"])
	assert.Equal(t, "Open", doc["status"])

	comment := &tasks.Comment{ID: 4, Text: "Looks good", TaskID: 7, AuthorID: 3}
	require.NoError(t, client.IndexComment(ctx, comment))
	assert.Equal(t, 1, cluster.docCount(search.CommentsIndex))

	require.NoError(t, client.DeleteTask(ctx, 7))
	require.NoError(t, client.DeleteComment(ctx, 4))
	assert.Equal(t, 0, cluster.docCount(search.TasksIndex))
	assert.Equal(t, 0, cluster.docCount(search.CommentsIndex))

	// deleting a missing document is not an error
	require.NoError(t, client.DeleteTask(ctx, 99))
}

func TestClient_BulkIndex(t *testing.T) {
	client, cluster := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.EnsureIndices(ctx))

	second := sampleTask()
	second.ID = 8
	comments := []*tasks.Comment{{ID: 1, Text: "first", TaskID: 7, AuthorID: 3}}

	require.NoError(t, client.BulkIndex(ctx, []*tasks.Task{sampleTask(), second}, comments))
	assert.Equal(t, 2, cluster.docCount(search.TasksIndex))
	assert.Equal(t, 1, cluster.docCount(search.CommentsIndex))

	cluster.failBulkID = "8"
	err := client.BulkIndex(ctx, []*tasks.Task{sampleTask(), second}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bulk indexing failed for 1 documents")
}

func TestClient_Search(t *testing.T) {
	client, cluster := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.EnsureIndices(ctx))
	require.NoError(t, client.IndexTask(ctx, sampleTask()))

	hits, err := client.Search(ctx, search.TargetTask, "report")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "7", hits[0]["id"])
	assert.Equal(t, "Write report", hits[0]["title"])
	assert.JSONEq(t, `{"query":{"multi_match":{"query":"report","fields":["title","description"]}}}`, string(cluster.lastSearch))

	_, err = client.Search(ctx, search.TargetComment, "good")
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"match":{"text":"good"}}}`, string(cluster.lastSearch))

	_, err = client.Search(ctx, search.Target("user"), "x")
	assert.ErrorIs(t, err, search.ErrInvalidTarget)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	settings := &config.SearchSettings{
		Addresses:   []string{addr},
		StartupMode: config.SearchModeInit,
		MaxAttempts: 1,
		BulkSize:    100,
	}
	client, err := NewClient(settings, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	err = client.EnsureIndices(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, search.ErrClusterUnavailable)
}

func TestNewClient_InvalidSettings(t *testing.T) {
	_, err := NewClient(&config.SearchSettings{StartupMode: "init", MaxAttempts: 1, BulkSize: 1}, testutil.SetupTestLogger(t))
	require.Error(t, err)
}
