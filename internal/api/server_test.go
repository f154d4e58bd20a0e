package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalekhpatel07/text-cleaner/internal/core/domain"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/infrastructure/metrics"
	"github.com/aalekhpatel07/text-cleaner/internal/pkg/config"
	apperrors "github.com/aalekhpatel07/text-cleaner/internal/pkg/errors"
	"github.com/aalekhpatel07/text-cleaner/internal/pkg/logger"
)

// mockJobService implements JobService for testing
type mockJobService struct {
	jobs    map[uuid.UUID]*domain.CleaningJob
	results map[uuid.UUID][]string
}

func newMockJobService() *mockJobService {
	return &mockJobService{
		jobs:    make(map[uuid.UUID]*domain.CleaningJob),
		results: make(map[uuid.UUID][]string),
	}
}

func (m *mockJobService) Submit(ctx context.Context, req cleaning.BatchRequest) (*domain.CleaningJob, error) {
	job := &domain.CleaningJob{
		ID:         uuid.New(),
		Status:     domain.JobStatusQueued,
		TotalTexts: len(req.Texts),
	}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *mockJobService) Get(ctx context.Context, id uuid.UUID) (*domain.CleaningJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, apperrors.JobNotFound(id.String())
	}
	return job, nil
}

func (m *mockJobService) Results(ctx context.Context, id uuid.UUID) ([]string, error) {
	job, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusCompleted {
		return nil, apperrors.JobNotReady(id.String(), job.Status)
	}
	return m.results[id], nil
}

type staticHealth map[string]any

func (h staticHealth) Health(ctx context.Context) map[string]any { return h }

func newTestServer(opts ...Option) *Server {
	log := logger.NewNop()
	svc := cleaning.NewService(cleaning.Config{MaxTextBytes: 32}, nil, log)
	return NewServer(svc, &config.ServerConfig{Host: "127.0.0.1", Port: "0"}, log, opts...)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst), rec.Body.String())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(
		WithHealthCheck("cache", staticHealth{"status": "up"}),
		WithHealthCheck("database", staticHealth{"status": "down"}),
	)
	rec := do(t, srv.Router(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Status     string                    `json:"status"`
		Components map[string]map[string]any `json:"components"`
	}
	decodeBody(t, rec, &out)
	assert.Equal(t, "degraded", out.Status)
	assert.Len(t, out.Components, 2)
}

func TestListTransformations(t *testing.T) {
	rec := do(t, newTestServer().Router(), http.MethodGet, "/v1/transformations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Transformations []transformationResponse `json:"transformations"`
	}
	decodeBody(t, rec, &out)
	require.Len(t, out.Transformations, 13)
	assert.Equal(t, "normalize_unicode_characters", out.Transformations[0].Name)
	assert.Equal(t, 1, out.Transformations[0].Priority)
	assert.Equal(t, "trim", out.Transformations[12].Name)
	assert.Equal(t, "Remove All Urls", out.Transformations[2].Label)
}

func TestClean(t *testing.T) {
	h := newTestServer().Router()

	tests := []struct {
		name     string
		body     string
		status   int
		wantText string
		wantCode apperrors.ErrorCode
	}{
		{"default preset", `{"text":"  hi  "}`, http.StatusOK, "hi", ""},
		{"explicit order", `{"text":"hi https://a.com","transformations":["remove_punctuation_marks","remove_all_urls"]}`, http.StatusOK, "hi httpsacom", ""},
		{"empty list", `{"text":" x ","transformations":[]}`, http.StatusOK, " x ", ""},
		{"preset alias", `{"text":"a@b.co hi","preset":"privacy"}`, http.StatusOK, " hi", ""},
		{"unknown transformation", `{"text":"x","transformations":["trim","sparkle"]}`, http.StatusBadRequest, "", apperrors.ErrCodeUnknownTransformation},
		{"unknown preset", `{"text":"x","preset":"loud"}`, http.StatusBadRequest, "", apperrors.ErrCodeUnknownPreset},
		{"too large", `{"text":"` + strings.Repeat("x", 33) + `"}`, http.StatusRequestEntityTooLarge, "", apperrors.ErrCodeTextTooLarge},
		{"malformed", `{"text":`, http.StatusBadRequest, "", apperrors.ErrCodeBadRequest},
		{"unknown field", `{"txt":"x"}`, http.StatusBadRequest, "", apperrors.ErrCodeBadRequest},
		{"empty body", ``, http.StatusBadRequest, "", apperrors.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/clean", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.wantCode != "" {
				var out errorResponse
				decodeBody(t, rec, &out)
				assert.Equal(t, tt.wantCode, out.Code)
				return
			}
			var out cleaning.Result
			decodeBody(t, rec, &out)
			assert.Equal(t, tt.wantText, out.Text)
		})
	}
}

func TestClean_UnknownTransformationDetails(t *testing.T) {
	rec := do(t, newTestServer().Router(), http.MethodPost, "/v1/clean",
		`{"text":"x","transformations":["sparkle"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var out errorResponse
	decodeBody(t, rec, &out)
	assert.Equal(t, "sparkle", out.Details["name"])
}

func TestCleanBatch(t *testing.T) {
	h := newTestServer().Router()

	rec := do(t, h, http.MethodPost, "/v1/clean/batch", `{"texts":[" a ","b  c"],"preset":"whitespace"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out cleaning.BatchResult
	decodeBody(t, rec, &out)
	assert.Equal(t, []string{"a", "b c"}, out.Texts)

	rec = do(t, h, http.MethodPost, "/v1/clean/batch", `{"texts":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errOut errorResponse
	decodeBody(t, rec, &errOut)
	assert.Contains(t, errOut.Details["fields"], "texts")
}

func TestToggle(t *testing.T) {
	h := newTestServer().Router()

	rec := do(t, h, http.MethodPost, "/v1/selection/toggle", `{"transformations":["trim"],"name":"remove_all_emails"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Transformations []string `json:"transformations"`
	}
	decodeBody(t, rec, &out)
	assert.Equal(t, []string{"remove_all_emails", "trim"}, out.Transformations)

	rec = do(t, h, http.MethodPost, "/v1/selection/toggle", `{"transformations":["trim"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPresets(t *testing.T) {
	h := newTestServer().Router()

	rec := do(t, h, http.MethodPost, "/v1/presets", `{"name":"tidy","aliases":["t"],"transformations":["trim","remove_empty_lines"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created presetResponse
	decodeBody(t, rec, &created)
	assert.Equal(t, []string{"remove_empty_lines", "trim"}, created.Transformations)
	assert.False(t, created.Builtin)

	rec = do(t, h, http.MethodGet, "/v1/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Presets []presetResponse `json:"presets"`
	}
	decodeBody(t, rec, &list)
	names := make([]string, 0, len(list.Presets))
	for _, p := range list.Presets {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"all", "ascii", "default", "redact", "tidy", "whitespace"}, names)

	rec = do(t, h, http.MethodPost, "/v1/presets", `{"name":"bad","transformations":["glitter"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/presets", `{"name":"all","transformations":["trim"]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/presets", `{"name":"shout","aliases":["tidy"],"transformations":["remove_non_ascii_characters"]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "PRESET_CONFLICT")

	rec = do(t, h, http.MethodDelete, "/v1/presets/tidy", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/v1/presets/default", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodDelete, "/v1/presets/tidy", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobs_Disabled(t *testing.T) {
	h := newTestServer().Router()

	rec := do(t, h, http.MethodPost, "/v1/jobs", `{"texts":["a"]}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var out errorResponse
	decodeBody(t, rec, &out)
	assert.Equal(t, apperrors.ErrCodeJobsDisabled, out.Code)

	rec = do(t, h, http.MethodGet, "/v1/jobs/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestJobs(t *testing.T) {
	jobs := newMockJobService()
	h := newTestServer(WithJobs(jobs)).Router()

	rec := do(t, h, http.MethodPost, "/v1/jobs", `{"texts":["a","b"]}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var submitted jobResponse
	decodeBody(t, rec, &submitted)
	require.NotNil(t, submitted.Job)
	id := submitted.Job.ID
	assert.Equal(t, "/v1/jobs/"+id.String(), rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/v1/jobs/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/jobs/"+id.String()+"/results", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	jobs.jobs[id].Status = domain.JobStatusCompleted
	jobs.results[id] = []string{"a", "b"}
	rec = do(t, h, http.MethodGet, "/v1/jobs/"+id.String()+"/results", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var results struct {
		Texts []string `json:"texts"`
	}
	decodeBody(t, rec, &results)
	assert.Equal(t, []string{"a", "b"}, results.Texts)

	rec = do(t, h, http.MethodGet, "/v1/jobs/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/jobs/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	log := logger.NewNop()
	svc := cleaning.NewService(cleaning.Config{}, nil, log, cleaning.WithRecorder(m))
	h := NewServer(svc, &config.ServerConfig{}, log, WithMetrics(m.Handler())).Router()

	rec := do(t, h, http.MethodPost, "/v1/clean", `{"text":" a "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `textclean_texts_processed_total{source="api"} 1`)
	assert.Contains(t, rec.Body.String(), `textclean_transformations_applied_total{transformation="trim"} 1`)
}
