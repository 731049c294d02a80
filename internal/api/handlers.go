package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/lead-tracker/internal/validate"
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors validate.Errors `json:"errors"`
}

type seriesResponse[T any] struct {
	Data []T `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listCompanies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.leads.Store().Snapshot())
}

func (h *handler) submitCompany(w http.ResponseWriter, r *http.Request) {
	var form validate.CompanyForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	res, err := h.leads.Submit(r.Context(), form)
	if err != nil {
		var errs validate.Errors
		if errors.As(err, &errs) {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: errs})
			return
		}
		zap.L().Error("api: submit company", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	status := http.StatusCreated
	if res.WasUpdated {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (h *handler) resetCompanies(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if err := h.leads.Reset(r.Context()); err != nil {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, h.leads.Store().Snapshot())
}

func (h *handler) price(w http.ResponseWriter, r *http.Request) {
	points, err := h.market.PriceSeries(r.Context())
	writeSeries(w, points, err)
}

func (h *handler) scatter(w http.ResponseWriter, r *http.Request) {
	points, err := h.market.Scatter(r.Context())
	writeSeries(w, points, err)
}

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.market.Dashboard(r.Context()))
}

func writeSeries[T any](w http.ResponseWriter, points []T, err error) {
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	if points == nil {
		points = []T{}
	}
	writeJSON(w, http.StatusOK, seriesResponse[T]{Data: points})
}
