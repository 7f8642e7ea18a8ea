package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/tidykit/internal/config"
	"github.com/wdm0006/tidykit/pkg/profile"
)

const people = "name,age\n Alice ,30\nbob,\n Alice ,30\n"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			MaxUploadBytes: 1 << 20,
			RateLimit:      config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1},
		},
		Logging: config.LoggingConfig{Level: "info", Format: "json"},
	}
}

func upload(t *testing.T, path, filename, body string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp
}

func TestHealth(t *testing.T) {
	s := New(testConfig(), nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestCleanAllSteps(t *testing.T) {
	s := New(testConfig(), nil)
	req := upload(t, "/api/v1/clean", "people.csv", people, map[string]string{
		"normalize": "true",
		"missing":   "mean",
		"dedupe":    "keep first",
	})
	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "name,age\nalice,30\nbob,30\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), CleanedFilename)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
}

func TestCleanNoOptionsEchoes(t *testing.T) {
	s := New(testConfig(), nil)
	rec := serve(s, upload(t, "/api/v1/clean", "people.csv", people, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	// leading spaces force quoting
	assert.Equal(t, "name,age\n\" Alice \",30\nbob,\n\" Alice \",30\n", rec.Body.String())
}

func TestCleanRejects(t *testing.T) {
	cases := []struct {
		name   string
		file   string
		body   string
		fields map[string]string
		status int
		code   string
	}{
		{"missing file", "", "", nil, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown column", "p.csv", people, map[string]string{"missing": "mean", "missing_column": "height"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown strategy", "p.csv", people, map[string]string{"missing": "guess"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown action", "p.csv", people, map[string]string{"dedupe": "sometimes"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"bad bool", "p.csv", people, map[string]string{"normalize": "perhaps"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"malformed csv", "p.csv", "a,b\n\"x\"y,2\n", nil, http.StatusBadRequest, "MALFORMED_INPUT"},
		{"unknown format", "p.csv", people, map[string]string{"format": "avro"}, http.StatusBadRequest, "VALIDATION_FAILED"},
	}
	s := New(testConfig(), nil)
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, upload(t, "/api/v1/clean", tc.file, tc.body, tc.fields))
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Error.ErrorCode)
		})
	}
}

func TestCleanTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxUploadBytes = 64
	s := New(cfg, nil)
	rec := serve(s, upload(t, "/api/v1/clean", "big.csv", "a\n"+strings.Repeat("1\n", 500), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decodeError(t, rec).Error.ErrorCode)
}

func TestProfile(t *testing.T) {
	s := New(testConfig(), nil)
	rec := serve(s, upload(t, "/api/v1/profile", "people.csv", people, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var rep profile.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, 3, rep.Rows)
	assert.Equal(t, 2, rep.Cols)
	require.Len(t, rep.Missing, 1)
	assert.Equal(t, "age", rep.Missing[0].Name)
}

func TestProfileJSONL(t *testing.T) {
	s := New(testConfig(), nil)
	rec := serve(s, upload(t, "/api/v1/profile", "rows.jsonl", "{\"x\":1}\n{\"x\":2}\n", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rep profile.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, 2, rep.Rows)
}

func TestSnippet(t *testing.T) {
	s := New(testConfig(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/snippets/button?measure=Go", strings.NewReader(`{"text":"Go","size":"Large"}`))
	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SnippetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "button", resp.Kind)
	assert.Contains(t, resp.HTML, "font-size: 40px;")
	assert.Contains(t, resp.HTML, "background-color: #FF5733;")
	assert.True(t, strings.HasPrefix(resp.Measure, `<HTML> Go = "`))
}

func TestSnippetDefaultsAndCSS(t *testing.T) {
	s := New(testConfig(), nil)
	rec := serve(s, httptest.NewRequest(http.MethodPost, "/api/v1/snippets/form?css=h3%7Bmargin:0%7D", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp SnippetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.HTML, "<style>\nh3{margin:0}\n</style>\n"))
	assert.Contains(t, resp.HTML, "placeholder='Enter Email'")
	assert.True(t, strings.HasPrefix(resp.Measure, `<HTML> Form Measure = "`))
}

func TestSnippetRejects(t *testing.T) {
	s := New(testConfig(), nil)

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/api/v1/snippets/banner", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/v1/snippets/button", strings.NewReader(`{"size":"Huge"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.ErrorCode)

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/v1/snippets/card", strings.NewReader(`{"title":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	s := New(cfg, nil)

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/api/v1/snippets/form", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/v1/snippets/form", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decodeError(t, rec).Error.ErrorCode)

	// health checks are not limited
	rec = serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetrics(t *testing.T) {
	s := New(testConfig(), nil)
	serve(s, upload(t, "/api/v1/profile", "people.csv", people, nil))
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `tidy_http_requests_total{code="200",route="/api/v1/profile"} 1`)
	assert.Contains(t, body, `tidy_rows_processed_total{endpoint="profile"} 3`)
}

func TestNotFound(t *testing.T) {
	s := New(testConfig(), nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.ErrorCode)
}
