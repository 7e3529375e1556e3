// Package handlers implements the HTTP API: upload two datasets, run the
// matching pipeline, stream the assembled result back.
package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/locmatch/internal/dataset"
	"github.com/locmatch/internal/engine"
	"github.com/locmatch/internal/fileio"
	"github.com/locmatch/internal/web/middleware"
)

// MatchHandler serves POST /api/match.
type MatchHandler struct {
	Logger      zerolog.Logger
	MaxUploadMB int

	// Store is optional; when non-nil every run is persisted.
	Store *engine.Store
}

type matchResponse struct {
	RunID   string         `json:"run_id"`
	Stats   engine.Stats   `json:"stats"`
	Matches []engine.Match `json:"matches"`
}

// Match accepts a multipart form with a "reference" and a "target" file plus
// the column/threshold fields, runs the pipeline and responds with CSV
// (default) or JSON depending on the "format" field.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(h.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		http.Error(w, fmt.Sprintf("parse upload: %v", err), http.StatusBadRequest)
		return
	}

	ref, err := h.formDataset(r, "reference")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tgt, err := h.formDataset(r, "target")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := formParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := engine.New(ref, tgt, params.Options())
	if err != nil {
		// schema problems are configuration errors, surfaced before matching
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	res, err := m.Match()
	if err != nil {
		h.Logger.Error().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Err(err).
			Msg("match run failed")
		http.Error(w, "match run failed", http.StatusInternalServerError)
		return
	}

	if h.Store != nil {
		if err := h.Store.SaveRun(res); err != nil {
			h.Logger.Error().Str("run_id", res.RunID).Err(err).Msg("persisting run failed")
		}
	}

	switch r.FormValue("format") {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(matchResponse{RunID: res.RunID, Stats: res.Stats, Matches: res.Matches})
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="matched.csv"`)
		if err := fileio.WriteCSVTo(w, res.Output); err != nil {
			h.Logger.Error().Str("run_id", res.RunID).Err(err).Msg("streaming result failed")
		}
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *MatchHandler) formDataset(r *http.Request, field string) (*dataset.Dataset, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %q file: %w", field, err)
	}
	defer f.Close()
	return readUpload(f, hdr, field)
}

func readUpload(f multipart.File, hdr *multipart.FileHeader, name string) (*dataset.Dataset, error) {
	d, err := fileio.ReadAny(f, hdr.Filename, name)
	if err != nil {
		return nil, fmt.Errorf("%s dataset: %w", name, err)
	}
	return d, nil
}

// formParams decodes the flat column/threshold fields. Field names mirror the
// CLI flags: zip_col1, name_col1, address_col2, lat_long_tolerance, ...
func formParams(r *http.Request) (engine.Params, error) {
	p := engine.Params{
		IDCol1:           formDefault(r, "id_col1", "CUSTOMER_ID"),
		ZipCol1:          formDefault(r, "zip_col1", "POSTAL_CODE"),
		ZipCol2:          r.FormValue("zip_col2"),
		NameCol1:         formDefault(r, "name_col1", "CUSTOMER_DESC"),
		NameCol2:         r.FormValue("name_col2"),
		AddressCol1:      r.FormValue("address_col1"),
		AddressCol2:      r.FormValue("address_col2"),
		LatCol1:          r.FormValue("lat_col1"),
		LongCol1:         r.FormValue("long_col1"),
		LatCol2:          r.FormValue("lat_col2"),
		LongCol2:         r.FormValue("long_col2"),
		LatLongTolerance: engine.DefaultLatLongTolerance,
		KeepAll:          r.FormValue("keep_all") == "true" || r.FormValue("keep_all") == "1",
	}

	if v := r.FormValue("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 100 {
			return p, fmt.Errorf("threshold must be an integer in [0,100], got %q", v)
		}
		p.Threshold = n
	}
	if v := r.FormValue("lat_long_tolerance"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("lat_long_tolerance must be a non-negative integer, got %q", v)
		}
		p.LatLongTolerance = n
	}
	return p, nil
}

func formDefault(r *http.Request, field, def string) string {
	if v := r.FormValue(field); v != "" {
		return v
	}
	return def
}
