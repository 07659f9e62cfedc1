package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreforecast "github.com/kilianp07/regcast/core/forecast"
	corehistory "github.com/kilianp07/regcast/core/history"
	"github.com/kilianp07/regcast/core/model"
	coremon "github.com/kilianp07/regcast/core/monitoring"
	"github.com/kilianp07/regcast/dataset"
)

type fakeService struct {
	res      coreforecast.Result
	err      error
	cats     []string
	records  []corehistory.Record
	gotCat   string
	gotYear  int
	gotQuery corehistory.Query
}

func (f *fakeService) Predict(_ context.Context, category string, year int) (coreforecast.Result, error) {
	f.gotCat, f.gotYear = category, year
	return f.res, f.err
}

func (f *fakeService) Categories(context.Context) ([]string, error) { return f.cats, f.err }

func (f *fakeService) History(_ context.Context, q corehistory.Query) ([]corehistory.Record, error) {
	f.gotQuery = q
	return f.records, f.err
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func TestPredict(t *testing.T) {
	svc := &fakeService{res: coreforecast.Result{
		Category:    "Mobil",
		TargetYear:  2026,
		Forecast:    []model.ForecastPoint{{Year: 2026, Count: 1234}},
		MethodLabel: "Linear regression only",
	}}
	h := NewHandler(svc, "en", nil).Routes()

	rr := do(t, h, http.MethodPost, "/api/predict", `{"vehicleType":" Mobil ","year":"2026"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Mobil", svc.gotCat)
	assert.Equal(t, 2026, svc.gotYear)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Linear regression only", body["method"])
	preds := body["predictions"].([]any)
	assert.Equal(t, "1234", preds[0].(map[string]any)["count"])
}

func TestPredictValidation(t *testing.T) {
	h := NewHandler(&fakeService{}, "en", nil).Routes()
	cases := map[string]string{
		"missing type":  `{"year":2026}`,
		"missing year":  `{"vehicleType":"Mobil"}`,
		"blank type":    `{"vehicleType":"  ","year":2026}`,
		"bad year":      `{"vehicleType":"Mobil","year":"soon"}`,
		"year too low":  `{"vehicleType":"Mobil","year":12}`,
		"not json":      `vehicleType=Mobil`,
		"empty payload": ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/predict", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, errorBody(t, rr))
		})
	}

	rr := do(t, h, http.MethodPost, "/api/predict", `{}`)
	msg := errorBody(t, rr)
	assert.Contains(t, msg, "vehicleType: is required")
	assert.Contains(t, msg, "year: is required")
}

func TestPredictErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"no data", &coreforecast.NoDataError{Category: "Bus"}, http.StatusNotFound, "Data tidak ditemukan untuk jenis kendaraan yang dipilih"},
		{"insufficient", &coreforecast.InsufficientDataError{Estimator: "linear", Need: 2, Have: 1}, http.StatusUnprocessableEntity, ""},
		{"duplicate", &coreforecast.DuplicateAbscissaError{Year: 2020}, http.StatusUnprocessableEntity, ""},
		{"source", &dataset.SourceError{Err: errors.New("timeout")}, http.StatusBadGateway, "dataset unavailable"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: c.err}, "id", nil).Routes()
			rr := do(t, h, http.MethodPost, "/api/predict", `{"vehicleType":"Bus","year":2025}`)
			assert.Equal(t, c.status, rr.Code)
			if c.msg != "" {
				assert.Equal(t, c.msg, errorBody(t, rr))
			}
		})
	}
}

type captureMonitor struct{ errs []error }

func (m *captureMonitor) CaptureException(err error, _ map[string]string) { m.errs = append(m.errs, err) }
func (m *captureMonitor) Recover()                                        {}
func (m *captureMonitor) Flush(time.Duration)                             {}

func TestPredictUnexpectedErrorCaptured(t *testing.T) {
	mon := &captureMonitor{}
	coremon.Init(mon)
	t.Cleanup(func() { coremon.Init(coremon.NopMonitor{}) })

	h := NewHandler(&fakeService{err: errors.New("boom")}, "en", nil).Routes()
	do(t, h, http.MethodPost, "/api/predict", `{"vehicleType":"Bus","year":2025}`)
	require.Len(t, mon.errs, 1)

	h = NewHandler(&fakeService{err: &coreforecast.NoDataError{}}, "en", nil).Routes()
	do(t, h, http.MethodPost, "/api/predict", `{"vehicleType":"Bus","year":2025}`)
	assert.Len(t, mon.errs, 1, "expected errors must not be reported")
}

func TestPredictMethodNotAllowed(t *testing.T) {
	h := NewHandler(&fakeService{}, "en", nil).Routes()
	rr := do(t, h, http.MethodGet, "/api/predict", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestChart(t *testing.T) {
	svc := &fakeService{res: coreforecast.Result{
		Category:   "Mobil",
		Historical: []model.Observation{{Year: 2022, Count: 5}},
		Forecast:   []model.ForecastPoint{{Year: 2024, Count: 7}},
	}}
	h := NewHandler(svc, "en", nil).Routes()
	rr := do(t, h, http.MethodGet, "/api/predict/chart?vehicleType=Mobil&year=2024", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Historical")
	assert.Equal(t, 2024, svc.gotYear)

	rr = do(t, h, http.MethodGet, "/api/predict/chart?vehicleType=Mobil&year=x", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVehicleTypes(t *testing.T) {
	h := NewHandler(&fakeService{cats: []string{"Semua Kendaraan", "Bus", "Mobil"}}, "en", nil).Routes()
	rr := do(t, h, http.MethodGet, "/api/vehicle-types", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string][]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, map[string][]string{"vehicleTypes": {"Semua Kendaraan", "Bus", "Mobil"}}, got)

	h = NewHandler(&fakeService{}, "en", nil).Routes()
	rr = do(t, h, http.MethodGet, "/api/vehicle-types", "")
	assert.JSONEq(t, `{"vehicleTypes": []}`, rr.Body.String())
}

func TestHistory(t *testing.T) {
	svc := &fakeService{records: []corehistory.Record{{ID: "a", Category: "Bus"}}}
	h := NewHandler(svc, "en", nil).Routes()
	rr := do(t, h, http.MethodGet, "/api/history?vehicleType=Bus&limit=5&start=2024-01-01T00:00:00Z", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bus", svc.gotQuery.Category)
	assert.Equal(t, 5, svc.gotQuery.Limit)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), svc.gotQuery.Start)
	var got []corehistory.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	for _, q := range []string{"limit=-1", "limit=x", "end=yesterday"} {
		rr = do(t, h, http.MethodGet, "/api/history?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}
