// Package forecast exposes the forecasting service over HTTP.
package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	coreforecast "github.com/kilianp07/regcast/core/forecast"
	corehistory "github.com/kilianp07/regcast/core/history"
	coremon "github.com/kilianp07/regcast/core/monitoring"
	"github.com/kilianp07/regcast/dataset"
	"github.com/kilianp07/regcast/infra/logger"
	"github.com/kilianp07/regcast/pkg/export"
)

const maxBodyBytes = 1 << 16

// Service is the forecasting backend used by the handlers.
type Service interface {
	Predict(ctx context.Context, category string, targetYear int) (coreforecast.Result, error)
	Categories(ctx context.Context) ([]string, error)
	History(ctx context.Context, q corehistory.Query) ([]corehistory.Record, error)
}

// Handler serves the forecast API.
type Handler struct {
	svc  Service
	lang string
	log  logger.Logger
}

// NewHandler returns a Handler. lang selects the language of the no data
// message. A nil logger discards output.
func NewHandler(svc Service, lang string, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{svc: svc, lang: lang, log: log}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/predict", h.predict)
	mux.HandleFunc("GET /api/predict/chart", h.chart)
	mux.HandleFunc("GET /api/vehicle-types", h.vehicleTypes)
	mux.HandleFunc("GET /api/history", h.history)
}

// Routes returns a ServeMux serving the API.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func (h *Handler) predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	req.normalize()
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Predict(r.Context(), req.VehicleType, int(req.Year))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	req := PredictRequest{VehicleType: r.URL.Query().Get("vehicleType")}
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year: must be an integer")
			return
		}
		req.Year = Year(y)
	}
	req.normalize()
	if err := validateRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Predict(r.Context(), req.VehicleType, int(req.Year))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.WriteHTMLChart(w, res); err != nil {
		h.log.Errorf("render chart: %v", err)
	}
}

type vehicleTypesResponse struct {
	VehicleTypes []string `json:"vehicleTypes"`
}

func (h *Handler) vehicleTypes(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, vehicleTypesResponse{VehicleTypes: cats})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	q := corehistory.Query{Category: strings.TrimSpace(r.URL.Query().Get("vehicleType")), Limit: 50}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit: must be a non-negative integer")
			return
		}
		q.Limit = n
	}
	for name, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
		if s := r.URL.Query().Get(name); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				writeError(w, http.StatusBadRequest, name+": must be an RFC 3339 timestamp")
				return
			}
			*dst = t
		}
	}
	recs, err := h.svc.History(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []corehistory.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// fail maps err to a status code. Unexpected errors are reported to the
// monitor and their details are not leaked to the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		noData *coreforecast.NoDataError
		source *dataset.SourceError
	)
	switch {
	case errors.As(err, &noData):
		writeError(w, http.StatusNotFound, coreforecast.NoDataMessage(h.lang))
	case coreforecast.IsInvalidInput(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &source):
		h.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusBadGateway, "dataset unavailable")
	case errors.Is(err, context.Canceled):
		h.log.Warnf("%s %s: client went away", r.Method, r.URL.Path)
	default:
		h.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		coremon.CaptureException(err, map[string]string{"module": "api", "path": r.URL.Path})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
