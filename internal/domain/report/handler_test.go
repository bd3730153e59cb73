package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/careops/rosterpdf/internal/domain/adherence"
	"github.com/careops/rosterpdf/internal/domain/roster"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo) {
	t.Helper()
	svc := newTestService(t, Config{OutputDir: t.TempDir()})
	return NewHandler(svc, roster.SampleSource{}), echo.New()
}

func postReport(t *testing.T, h *Handler, e *echo.Echo, payload any) (*httptest.ResponseRecorder, error) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.CreateReport(c)
}

// -- Handler Tests --

func TestHandler_CreateReport(t *testing.T) {
	h, e := newTestHandler(t)
	records := roster.GroupRecords(roster.SampleRecords())[0].Records

	rec, err := postReport(t, h, e, map[string]any{
		"narrative": "Review this panel.",
		"records":   records,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Errorf("content type = %s, want application/pdf", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, ".pdf") {
		t.Errorf("content disposition = %s, want a .pdf filename", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body does not start with the PDF magic")
	}
}

func TestHandler_CreateReport_NoRecords(t *testing.T) {
	h, e := newTestHandler(t)
	_, err := postReport(t, h, e, map[string]any{"records": []roster.Record{}})
	if err == nil {
		t.Error("expected error for empty records")
	}
}

func TestHandler_CreateReport_MultipleGroups(t *testing.T) {
	h, e := newTestHandler(t)
	records := []roster.Record{
		{roster.FieldProvider: "Dr. Smith", roster.FieldMemberID: "M1"},
		{roster.FieldProvider: "Dr. Lee", roster.FieldMemberID: "M2"},
	}

	_, err := postReport(t, h, e, map[string]any{"records": records})
	if err == nil {
		t.Fatal("expected error for records spanning groups")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected a 400, got %v", err)
	}
}

func TestHandler_CreateReport_BadPayload(t *testing.T) {
	h, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateReport(c); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestHandler_RunBatch(t *testing.T) {
	h, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RunBatch(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Written int           `json:"written"`
		Failed  int           `json:"failed"`
		Results []batchResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Written != 4 || resp.Failed != 0 {
		t.Errorf("expected 4 written and 0 failed, got %d/%d", resp.Written, resp.Failed)
	}
	if len(resp.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.Error != "" {
			t.Errorf("group %s: unexpected error %q", r.Key, r.Error)
		}
		if !strings.HasSuffix(r.FileName, ".pdf") {
			t.Errorf("group %s: file name %q is not a pdf", r.Key, r.FileName)
		}
		if r.Pages < 1 {
			t.Errorf("group %s: expected at least one page", r.Key)
		}
	}
}

func TestHandler_RunBatch_NoSource(t *testing.T) {
	svc := newTestService(t, Config{OutputDir: t.TempDir()})
	h := NewHandler(svc, nil)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.RunBatch(c)
	if err == nil {
		t.Fatal("expected error when no source is configured")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusServiceUnavailable {
		t.Errorf("expected a 503, got %v", err)
	}
}

func TestHandler_RunBatch_SourceError(t *testing.T) {
	svc := newTestService(t, Config{OutputDir: t.TempDir()})
	h := NewHandler(svc, failingSource{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.RunBatch(c)
	if err == nil {
		t.Fatal("expected error when the source fails")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("expected a 500, got %v", err)
	}
}

func TestHandler_ListReports(t *testing.T) {
	h, e := newTestHandler(t)

	// Populate the output directory through a batch run first.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if err := h.RunBatch(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=2", nil)
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)

	if err := h.ListReports(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data    []ArtifactInfo `json:"data"`
		Total   int            `json:"total"`
		HasMore bool           `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 4 {
		t.Errorf("expected 4 documents, got %d", resp.Total)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected a page of 2, got %d", len(resp.Data))
	}
	if !resp.HasMore {
		t.Error("expected has_more with 4 documents and limit 2")
	}
	for _, info := range resp.Data {
		if !strings.HasSuffix(info.FileName, ".pdf") {
			t.Errorf("file name %q is not a pdf", info.FileName)
		}
		if info.Bytes == 0 {
			t.Errorf("%s: expected a non-empty file", info.FileName)
		}
	}
}

func TestHandler_ListReports_Empty(t *testing.T) {
	h, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListReports(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Total   int  `json:"total"`
		HasMore bool `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 0 || resp.HasMore {
		t.Errorf("expected an empty inventory, got total %d", resp.Total)
	}
}

func TestHandler_ListMeasures(t *testing.T) {
	h, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListMeasures(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var defs []adherence.MeasureDef
	if err := json.Unmarshal(rec.Body.Bytes(), &defs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 3 {
		t.Errorf("expected 3 measures, got %d", len(defs))
	}
	if defs[0].Label != "Statin" {
		t.Errorf("first measure = %s, want Statin", defs[0].Label)
	}
}
