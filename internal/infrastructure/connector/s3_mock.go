package connector

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/config"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
)

// MockS3Backend is an in-memory S3 endpoint served through a fake HTTP transport.
// It implements the object calls the attachment connector issues.
type MockS3Backend struct {
	mu      sync.Mutex
	objects map[string]MockS3Object
	// FailWrites makes every PUT answer 403
	FailWrites bool
}

// MockS3Object is a stored object
type MockS3Object struct {
	Body        []byte
	ContentType string
}

// NewMockS3AttachmentConnector returns a connector wired to a fresh in-memory backend
func NewMockS3AttachmentConnector(settings *config.StorageSettings, logger logger.Logger) (tasks.AttachmentStore, *MockS3Backend, error) {
	backend := &MockS3Backend{objects: make(map[string]MockS3Object)}

	s := *settings
	if s.Endpoint == "" {
		s.Endpoint = "http://mock.s3.local"
	}
	if s.AccessKeyID == "" {
		s.AccessKeyID, s.SecretAccessKey = "AKIA", "SECRET"
	}
	s.PathStyle = true

	conn, err := newS3AttachmentConnector(context.Background(), &s, logger, &http.Client{Transport: backend})
	if err != nil {
		return nil, nil, err
	}
	return conn, backend, nil
}

// Object returns the object stored under bucket/key
func (m *MockS3Backend) Object(bucket, key string) (MockS3Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[bucket+"/"+key]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MockS3Backend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *MockS3Backend) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := strings.TrimPrefix(req.URL.Path, "/")

	switch req.Method {
	case http.MethodPut:
		if m.FailWrites {
			return mockResponse(http.StatusForbidden, "<Error><Code>AccessDenied</Code><Message>write denied</Message></Error>"), nil
		}
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		m.objects[path] = MockS3Object{Body: body, ContentType: req.Header.Get("Content-Type")}
		resp := mockResponse(http.StatusOK, "")
		resp.Header.Set("ETag", "\"etag\"")
		return resp, nil
	case http.MethodGet, http.MethodHead:
		obj, ok := m.objects[path]
		if !ok {
			return mockResponse(http.StatusNotFound, "<Error><Code>NoSuchKey</Code></Error>"), nil
		}
		resp := mockResponse(http.StatusOK, "")
		if req.Method == http.MethodGet {
			resp.Body = io.NopCloser(bytes.NewReader(obj.Body))
		}
		resp.Header.Set("Content-Length", strconv.Itoa(len(obj.Body)))
		resp.Header.Set("Content-Type", obj.ContentType)
		return resp, nil
	case http.MethodDelete:
		delete(m.objects, path)
		return mockResponse(http.StatusNoContent, ""), nil
	}
	return mockResponse(http.StatusNotImplemented, ""), nil
}

func mockResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/xml"}},
	}
}

// decodeChunked unwraps a single-chunk aws-chunked payload: <hex>[;ext]\r\n<body>\r\n0...
func decodeChunked(b []byte) ([]byte, bool) {
	head, rest, ok := bytes.Cut(b, []byte("\r\n"))
	if !ok {
		return nil, false
	}
	if i := bytes.IndexByte(head, ';'); i >= 0 {
		head = head[:i]
	}
	size, err := strconv.ParseInt(string(head), 16, 64)
	if err != nil || size < 0 || int64(len(rest)) < size+2 {
		return nil, false
	}
	if !bytes.HasPrefix(rest[size:], []byte("\r\n0")) {
		return nil, false
	}
	return rest[:size], true
}
