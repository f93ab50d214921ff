package server

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const testPlanJSON = `{
	"seed": 42,
	"population": {"persons": 5},
	"time": {
		"horizon": {"days": 90},
		"start_date": "2024-01-01",
		"end_date": "2024-03-31"
	}
}`

func newTestServer() *echo.Echo {
	e := echo.New()
	New(zerolog.Nop(), 100).Register(e)
	return e
}

func postPlan(t *testing.T, e *echo.Echo, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func getPath(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	rec := getPath(newTestServer(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

// ---------------------------------------------------------------------------
// Generate
// ---------------------------------------------------------------------------

func TestGenerate_ReturnsCounts(t *testing.T) {
	rec := postPlan(t, newTestServer(), testPlanJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Seed != 42 {
		t.Errorf("expected seed 42, got %d", resp.Seed)
	}
	if resp.Counts["Patient"] != 5 || resp.Counts["Person"] != 5 {
		t.Errorf("unexpected counts: %v", resp.Counts)
	}
	if !resp.Valid {
		t.Errorf("expected a valid dataset, got %d errors", resp.Errors)
	}
	if resp.Total == 0 {
		t.Error("expected a nonzero total")
	}
}

func TestGenerate_RejectsBadPlan(t *testing.T) {
	rec := postPlan(t, newTestServer(), `{"population": {"persons": 0}, "time": {"horizon": {"days": 30}}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerate_EnforcesPersonLimit(t *testing.T) {
	e := echo.New()
	New(zerolog.Nop(), 3).Register(e)

	rec := postPlan(t, e, testPlanJSON)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for persons over the limit, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "server limit") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGenerate_AcceptsYAML(t *testing.T) {
	doc := "seed: 7\npopulation:\n  persons: 2\ntime:\n  horizon:\n    days: 30\n"
	rec := postPlan(t, newTestServer(), doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a YAML plan, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Seed != 7 {
		t.Errorf("expected seed 7, got %d", resp.Seed)
	}
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

func TestExportNDJSON_BeforeGenerate(t *testing.T) {
	rec := getPath(newTestServer(), "/export/ndjson/Patient")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before a generation, got %d", rec.Code)
	}
}

func TestExportNDJSON_StreamsType(t *testing.T) {
	e := newTestServer()
	if rec := postPlan(t, e, testPlanJSON); rec.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", rec.Code)
	}

	rec := getPath(e, "/export/ndjson/Patient")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/x-ndjson" {
		t.Errorf("unexpected content type %s", ct)
	}

	lines := 0
	sc := bufio.NewScanner(rec.Body)
	for sc.Scan() {
		var body map[string]any
		if err := json.Unmarshal(sc.Bytes(), &body); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines, err)
		}
		if body["resourceType"] != "Patient" {
			t.Fatalf("unexpected resource type %v", body["resourceType"])
		}
		lines++
	}
	if lines != 5 {
		t.Errorf("expected 5 patients, got %d lines", lines)
	}
}

func TestExportNDJSON_UnknownType(t *testing.T) {
	e := newTestServer()
	if rec := postPlan(t, e, testPlanJSON); rec.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", rec.Code)
	}
	rec := getPath(e, "/export/ndjson/Device")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an absent type, got %d", rec.Code)
	}
}

func TestExportBundle_TransactionOverride(t *testing.T) {
	e := newTestServer()
	if rec := postPlan(t, e, testPlanJSON); rec.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", rec.Code)
	}

	rec := getPath(e, "/export/bundle?type=transaction")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var bundle map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if bundle["type"] != "transaction" {
		t.Errorf("expected transaction bundle, got %v", bundle["type"])
	}
	entries, _ := bundle["entry"].([]any)
	if len(entries) == 0 {
		t.Fatal("expected bundle entries")
	}
	entry, _ := entries[0].(map[string]any)
	request, _ := entry["request"].(map[string]any)
	if request["method"] != "PUT" {
		t.Errorf("expected PUT request, got %v", request["method"])
	}
}

func TestExportBundle_RejectsUnknownBundleType(t *testing.T) {
	e := newTestServer()
	if rec := postPlan(t, e, testPlanJSON); rec.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", rec.Code)
	}
	rec := getPath(e, "/export/bundle?type=batch")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown bundle type, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Validation report
// ---------------------------------------------------------------------------

func TestValidation_BeforeGenerate(t *testing.T) {
	rec := getPath(newTestServer(), "/validation")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before a generation, got %d", rec.Code)
	}
}

func TestValidation_ReportsCleanRun(t *testing.T) {
	e := newTestServer()
	if rec := postPlan(t, e, testPlanJSON); rec.Code != http.StatusOK {
		t.Fatalf("generate failed: %d", rec.Code)
	}

	rec := getPath(e, "/validation")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ValidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Valid {
		t.Fatalf("expected a valid dataset: %v", resp.Errors)
	}
	if !strings.Contains(resp.Summary, "Validation passed") {
		t.Errorf("unexpected summary: %s", resp.Summary)
	}
}
