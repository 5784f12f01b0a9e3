package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anonymizer/internal/dto"
	"anonymizer/internal/logger"
)

type stubInvoker struct {
	requests []dto.Request
	response dto.Response
}

func (s *stubInvoker) Handle(ctx context.Context, req dto.Request) dto.Response {
	s.requests = append(s.requests, req)
	return s.response
}

func TestInvokeHandler(t *testing.T) {
	invoker := &stubInvoker{response: dto.NewResponse("404", "The object does not exist: s3://in/a.jpg")}
	h := InvokeHandler(invoker, logger.New(io.Discard, io.Discard, false))

	body := `{"image":"s3://in/a.jpg","filtered_image":"s3://out/a.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected HTTP 200, got %d", rec.Code)
	}
	if len(invoker.requests) != 1 || invoker.requests[0].FilteredImage != "s3://out/a.jpg" {
		t.Fatalf("Unexpected requests: %+v", invoker.requests)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if raw["statusCode"] != float64(404) {
		t.Errorf("Expected numeric statusCode 404, got %v", raw["statusCode"])
	}
	if raw["body"] != `{"message":"The object does not exist: s3://in/a.jpg"}` {
		t.Errorf("Unexpected body: %v", raw["body"])
	}
}

func TestInvokeHandler_Rejects(t *testing.T) {
	invoker := &stubInvoker{}
	h := InvokeHandler(invoker, logger.New(io.Discard, io.Discard, false))

	tests := []struct {
		method string
		body   string
		code   int
	}{
		{http.MethodGet, "", http.StatusMethodNotAllowed},
		{http.MethodPost, "{not json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/invoke", strings.NewReader(tt.body)))
		if rec.Code != tt.code {
			t.Errorf("%s %q: expected %d, got %d", tt.method, tt.body, tt.code, rec.Code)
		}
	}
	if len(invoker.requests) != 0 {
		t.Errorf("Invoker should not run for rejected requests")
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected health response: %d %s", rec.Code, rec.Body.String())
	}
}
