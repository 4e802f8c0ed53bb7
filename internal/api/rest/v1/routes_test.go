//go:build unit
// +build unit

package v1

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testRouter struct {
	engine   *gin.Engine
	users    *MockUserService
	tasks    *MockTaskService
	timeLogs *MockTimeLogService
}

func newTestRouter(t *testing.T) *testRouter {
	staticRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staticRoot, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticRoot, "css", "tms.css"), []byte("body{}"), 0o644))

	metrics, err := NewMetrics()
	require.NoError(t, err)

	tr := &testRouter{
		users:    new(MockUserService),
		tasks:    new(MockTaskService),
		timeLogs: new(MockTimeLogService),
	}
	tr.users.On("Authenticate", mock.Anything, "good").Return(testUser, nil)
	tr.users.On("Authenticate", mock.Anything, mock.Anything).Return(nil, users.ErrInvalidToken)

	services := &Services{
		Users:       tr.users,
		Tasks:       tr.tasks,
		Comments:    new(MockCommentService),
		TimeLogs:    tr.timeLogs,
		Attachments: new(MockAttachmentService),
		Search:      new(MockSearchService),
	}
	opts := RouterOptions{
		StaticRoot:     staticRoot,
		StaticPrefix:   "/static",
		OpenAPI:        []byte("openapi: 3.0.3\n"),
		WebhookToken:   testWebhookToken,
		MaxUploadBytes: 1 << 20,
		Metrics:        metrics,
	}
	tr.engine = NewRouter(services, opts, testutil.SetupTestLogger(t))
	return tr
}

func (tr *testRouter) do(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	tr.engine.ServeHTTP(w, req)
	return w
}

func TestSetupRoutes_PublicRoutes(t *testing.T) {
	tr := newTestRouter(t)

	w := tr.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"live":true}`, w.Body.String())

	w = tr.do(http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = tr.do(http.MethodGet, "/static/css/tms.css", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())

	w = tr.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tms_http_requests_total")
}

func TestSetupRoutes_ProtectedRoutesRequireToken(t *testing.T) {
	tr := newTestRouter(t)

	protected := []struct {
		method string
		url    string
	}{
		{http.MethodGet, "/protected"},
		{http.MethodGet, "/api/v1/tasks"},
		{http.MethodPost, "/api/v1/tasks"},
		{http.MethodGet, "/api/v1/tasks/1"},
		{http.MethodPatch, "/api/v1/tasks/1/complete"},
		{http.MethodGet, "/api/v1/tasks/comments"},
		{http.MethodGet, "/api/v1/tasks/time-logs"},
		{http.MethodPatch, "/api/v1/tasks/time-logs/stop-timer"},
		{http.MethodGet, "/api/v1/tasks/attachments"},
		{http.MethodGet, "/api/v1/search"},
		{http.MethodGet, "/api/v1/users/logged-time/last-month"},
	}

	for _, tt := range protected {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			w := tr.do(tt.method, tt.url, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestSetupRoutes_StaticSegmentsBeatTaskID(t *testing.T) {
	tr := newTestRouter(t)

	tr.tasks.On("TopLoggedLastMonth", mock.Anything, uint(7)).Return([]*tasks.TaskSummary{}, nil)
	tr.tasks.On("Get", mock.Anything, uint(9)).Return(nil, tasks.ErrTaskNotFound)
	tr.timeLogs.On("List", mock.Anything, &tasks.TimeLogQuery{}).Return([]*tasks.TimeLog{}, nil)

	w := tr.do(http.MethodGet, "/api/v1/tasks/top-logged-tasks-last-month", "good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = tr.do(http.MethodGet, "/api/v1/tasks/time-logs", "good")
	assert.Equal(t, http.StatusOK, w.Code)

	w = tr.do(http.MethodGet, "/api/v1/tasks/9", "good")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, w.Body.String())

	tr.tasks.AssertExpectations(t)
}

func TestSetupRoutes_WebhookSkipsJWT(t *testing.T) {
	tr := newTestRouter(t)

	w := tr.do(http.MethodPost, "/api/v1/tasks/attachments/webhook", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid Minio webhook token"}`, w.Body.String())
	tr.users.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}
