package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/locmatch/internal/engine"
)

func multipartRequest(t *testing.T, files map[string]string, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for field, content := range files {
		fw, err := w.CreateFormFile(field, field+".csv")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/match", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func newHandler() *MatchHandler {
	return &MatchHandler{Logger: zerolog.Nop(), MaxUploadMB: 8}
}

const (
	refCSV = "CUSTOMER_ID,POSTAL_CODE,CUSTOMER_DESC,STREET_ADDRESS\nC1,12345,Alpha Cafe!,1 Main St.\nC2,54321,Beta Bar,2 Side St.\n"
	tgtCSV = "POSTAL_CODE,CUSTOMER_DESC,STREET_ADDRESS\n12345,alpha cafe,1 main st\n99999,orphan outlet,3 nowhere rd\n"
)

func TestMatchEndpointJSON(t *testing.T) {
	req := multipartRequest(t,
		map[string]string{"reference": refCSV, "target": tgtCSV},
		map[string]string{
			"address_col1": "STREET_ADDRESS",
			"format":       "json",
		})

	rec := httptest.NewRecorder()
	newHandler().Match(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp matchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RunID == "" {
		t.Error("run_id empty")
	}
	if resp.Stats.Matched != 1 || resp.Stats.AddressZip != 1 {
		t.Errorf("stats = %+v, want one address-zip match", resp.Stats)
	}
	if len(resp.Matches) != 1 || resp.Matches[0].ReferenceID != "C1" {
		t.Errorf("matches = %+v, want single match on C1", resp.Matches)
	}
	if resp.Matches[0].Stage != engine.StageAddressZip {
		t.Errorf("stage = %q, want %q", resp.Matches[0].Stage, engine.StageAddressZip)
	}
}

func TestMatchEndpointCSVDefault(t *testing.T) {
	req := multipartRequest(t,
		map[string]string{"reference": refCSV, "target": tgtCSV},
		map[string]string{
			"address_col1": "STREET_ADDRESS",
			"keep_all":     "true",
		})

	rec := httptest.NewRecorder()
	newHandler().Match(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	// header + both target rows with keep_all
	if len(lines) != 3 {
		t.Errorf("csv lines = %d, want 3:\n%s", len(lines), rec.Body.String())
	}
	if !strings.Contains(lines[0], "ref_id") || !strings.Contains(lines[0], "match_type") {
		t.Errorf("csv header missing annotation columns: %s", lines[0])
	}
}

func TestMatchEndpointErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		req := multipartRequest(t, map[string]string{"reference": refCSV}, nil)
		rec := httptest.NewRecorder()
		newHandler().Match(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown column is a config error", func(t *testing.T) {
		req := multipartRequest(t,
			map[string]string{"reference": refCSV, "target": tgtCSV},
			map[string]string{"zip_col1": "NO_SUCH_COLUMN"})
		rec := httptest.NewRecorder()
		newHandler().Match(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("bad threshold", func(t *testing.T) {
		req := multipartRequest(t,
			map[string]string{"reference": refCSV, "target": tgtCSV},
			map[string]string{"threshold": "150"})
		rec := httptest.NewRecorder()
		newHandler().Match(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
