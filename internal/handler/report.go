package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/pkg/response"
)

// GetStats handles GET /api/v1/stats: the dashboard aggregates, recomputed
// from the current ledger snapshot on every call.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Stats())
}

// GetReport handles GET /api/v1/reports?granularity=&from=&to=. Explicit
// bounds override the granularity's default window. Zero rows is a valid
// result and comes back as an empty list.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	g, from, to, err := reportParams(r)
	if err != nil {
		response.BadRequest(w, "invalid report parameters", err)
		return
	}

	rows, err := h.service.Report(g, from, to)
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, rows)
}

// ExportReport handles GET /api/v1/reports/export: same parameters as
// GetReport, but the rows come back rendered as a spreadsheet download.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	g, from, to, err := reportParams(r)
	if err != nil {
		response.BadRequest(w, "invalid report parameters", err)
		return
	}

	artifact, stem, err := h.service.ExportReport(g, from, to)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stem+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}

func reportParams(r *http.Request) (domain.Granularity, *time.Time, *time.Time, error) {
	params := r.URL.Query()

	g := domain.Granularity(params.Get("granularity"))
	if !g.Valid() {
		return "", nil, nil, fmt.Errorf("granularity must be daily, weekly, monthly or yearly, got %q", params.Get("granularity"))
	}

	from, err := optionalDate(params.Get("from"))
	if err != nil {
		return "", nil, nil, err
	}
	to, err := optionalDate(params.Get("to"))
	if err != nil {
		return "", nil, nil, err
	}
	return g, from, to, nil
}

func optionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, time.Local)
	if err != nil {
		return nil, fmt.Errorf("dates must use YYYY-MM-DD: %w", err)
	}
	return &t, nil
}
