package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"voyage-planner-service/internal/adapters/repositories"
	"voyage-planner-service/internal/domain"
	"voyage-planner-service/internal/platform/obs"
	"voyage-planner-service/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constPredictor float64

func (p constPredictor) Predict([]float64) (float64, error) { return float64(p), nil }

var testNow = time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	handler http.Handler
	store   *repositories.MemoryStore
	engine  *services.PredictionEngine
	ship    domain.Ship
}

func newTestServer(t *testing.T, opts ...services.EngineOption) *testServer {
	t.Helper()

	store := repositories.NewMemoryStore()
	ship := store.AddShip(domain.Ship{Name: "Northern Star", EngineType: "MAN B&W 6S60MC"})

	reg := prometheus.NewRegistry()
	metrics, err := obs.NewMetrics(reg)
	require.NoError(t, err)

	opts = append([]services.EngineOption{services.WithClock(func() time.Time { return testNow })}, opts...)
	engine := services.NewPredictionEngine(store, opts...)

	h := NewRouter(Deps{
		Voyages:     store,
		Maintenance: store,
		Engine:      engine,
		Logger:      zerolog.Nop(),
		Metrics:     metrics,
		Gatherer:    reg,
		Now:         func() time.Time { return testNow },
	})
	return &testServer{handler: h, store: store, engine: engine, ship: ship}
}

func withFuel(burn float64) services.EngineOption {
	return services.WithModels(services.NewFuelModel(constPredictor(burn)), nil)
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestReady(t *testing.T) {
	s := newTestServer(t, withFuel(100))

	rec := s.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"uninitialized","fuelModel":true,"maintenanceModel":false}`, rec.Body.String())

	require.NoError(t, s.engine.Initialize(context.Background()))

	rec = s.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","fuelModel":true,"maintenanceModel":false}`, rec.Body.String())
}

func TestPlanVoyage(t *testing.T) {
	s := newTestServer(t, withFuel(100))

	body := `{"shipId":"` + s.ship.ID + `","origin":"A","destination":"BB","departureTime":"2025-08-02T00:00:00Z","weather":"Calm","cargoKg":0}`
	rec := s.do(http.MethodPost, "/plan-voyage", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	type planBody struct {
		VoyageID         string    `json:"voyageId"`
		ETA              time.Time `json:"eta"`
		FuelKg           float64   `json:"fuelKg"`
		Route            []string  `json:"route"`
		SpeedScheduleKph float64   `json:"speedScheduleKph"`
	}
	res := decodeBody[planBody](t, rec)
	assert.NotEmpty(t, res.VoyageID)
	assert.Equal(t, 1250.0, res.FuelKg)
	assert.Equal(t, 40.0, res.SpeedScheduleKph)
	assert.Equal(t, []string{"A", "Waypoint-A", "Waypoint-B", "BB"}, res.Route)
	assert.True(t, res.ETA.Equal(time.Date(2025, 8, 2, 12, 30, 0, 0, time.UTC)))

	rec = s.do(http.MethodGet, "/plan-history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	type historyBody struct {
		Voyages []struct {
			ID   string `json:"id"`
			Ship *struct {
				Name string `json:"name"`
			} `json:"ship"`
			Weather string          `json:"weather"`
			Actuals json.RawMessage `json:"actuals"`
		} `json:"voyages"`
	}
	history := decodeBody[historyBody](t, rec)
	require.Len(t, history.Voyages, 1)
	assert.Equal(t, res.VoyageID, history.Voyages[0].ID)
	require.NotNil(t, history.Voyages[0].Ship)
	assert.Equal(t, "Northern Star", history.Voyages[0].Ship.Name)
	assert.Equal(t, "Calm", history.Voyages[0].Weather)
	assert.Equal(t, "null", string(history.Voyages[0].Actuals))
}

func TestPlanVoyageValidation(t *testing.T) {
	s := newTestServer(t, withFuel(100))
	valid := func(mutate string) string {
		return `{"shipId":"` + s.ship.ID + `","origin":"A","destination":"B","departureTime":"2025-08-02T00:00:00Z",` + mutate + `}`
	}

	cases := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing cargo", valid(`"weather":"Calm"`), http.StatusBadRequest, missingPlanFieldsMsg},
		{"blank weather", valid(`"weather":" ","cargoKg":1`), http.StatusBadRequest, missingPlanFieldsMsg},
		{"unknown weather", valid(`"weather":"Foggy","cargoKg":1`), http.StatusBadRequest, "weather must be one of Calm, Moderate, Stormy"},
		{"negative cargo", valid(`"weather":"Calm","cargoKg":-5`), http.StatusBadRequest, "cargoKg must not be negative"},
		{"unknown field", valid(`"weather":"Calm","cargoKg":1,"speed":3`), http.StatusBadRequest, "invalid json body"},
		{"two objects", valid(`"weather":"Calm","cargoKg":1`) + `{}`, http.StatusBadRequest, "body must contain only one JSON object"},
		{"bad json", `{`, http.StatusBadRequest, "invalid json body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/plan-voyage", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, decodeBody[map[string]string](t, rec)["error"])
		})
	}

	rec := s.do(http.MethodGet, "/plan-voyage", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

const missingPlanFieldsMsg = "Missing required fields: origin, destination, departureTime, weather, cargoKg, shipId."

func TestPlanVoyageWithoutFuelModel(t *testing.T) {
	s := newTestServer(t)

	body := `{"shipId":"` + s.ship.ID + `","origin":"A","destination":"B","departureTime":"2025-08-02T00:00:00Z","weather":"Calm","cargoKg":0}`
	rec := s.do(http.MethodPost, "/plan-voyage", body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	voyages, err := s.store.ListVoyages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, voyages)
}

func TestPlanVoyageUnknownShip(t *testing.T) {
	s := newTestServer(t, withFuel(100))

	body := `{"shipId":"ghost","origin":"A","destination":"B","departureTime":"2025-08-02T00:00:00Z","weather":"Calm","cargoKg":0}`
	rec := s.do(http.MethodPost, "/plan-voyage", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func planOne(t *testing.T, s *testServer) string {
	t.Helper()
	body := `{"shipId":"` + s.ship.ID + `","origin":"A","destination":"BB","departureTime":"2025-07-30T00:00:00Z","weather":"Calm","cargoKg":0}`
	rec := s.do(http.MethodPost, "/plan-voyage", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[map[string]any](t, rec)["voyageId"].(string)
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t, withFuel(100))
	id := planOne(t, s)

	rec := s.do(http.MethodPost, "/feedback", `{"voyageId":"`+id+`","actualFuelUsed":1300,"actualTimeTaken":"2025-07-30T13:00:00Z","notes":"swell"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	type feedbackBody struct {
		ID      string `json:"id"`
		Actuals *struct {
			FuelKg float64 `json:"fuelKg"`
			Notes  string  `json:"notes"`
		} `json:"actuals"`
	}
	res := decodeBody[feedbackBody](t, rec)
	assert.Equal(t, id, res.ID)
	require.NotNil(t, res.Actuals)
	assert.Equal(t, 1300.0, res.Actuals.FuelKg)
	assert.Equal(t, "swell", res.Actuals.Notes)

	logs, err := s.store.FetchFuelLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 100.0, logs[0].FuelBurnRate)
	assert.Equal(t, testNow, logs[0].Timestamp)
}

func TestFeedbackErrors(t *testing.T) {
	s := newTestServer(t, withFuel(100))
	id := planOne(t, s)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"missing fuel", `{"voyageId":"` + id + `","actualTimeTaken":"2025-07-30T13:00:00Z"}`, http.StatusBadRequest},
		{"zero fuel", `{"voyageId":"` + id + `","actualFuelUsed":0,"actualTimeTaken":"2025-07-30T13:00:00Z"}`, http.StatusBadRequest},
		{"missing time", `{"voyageId":"` + id + `","actualFuelUsed":10}`, http.StatusBadRequest},
		{"arrival before departure", `{"voyageId":"` + id + `","actualFuelUsed":10,"actualTimeTaken":"2025-07-29T13:00:00Z"}`, http.StatusBadRequest},
		{"negative fuel", `{"voyageId":"` + id + `","actualFuelUsed":-10,"actualTimeTaken":"2025-07-30T13:00:00Z"}`, http.StatusBadRequest},
		{"unknown voyage", `{"voyageId":"ghost","actualFuelUsed":10,"actualTimeTaken":"2025-07-30T13:00:00Z"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/feedback", tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	rec := s.do(http.MethodPost, "/feedback", `{"voyageId":"`+id+`"}`)
	assert.Equal(t, missingFeedbackFieldsMsg, decodeBody[map[string]string](t, rec)["error"])
}

const missingFeedbackFieldsMsg = "Missing required fields: voyageId, actualFuelUsed, actualTimeTaken."

func TestMaintenanceAlerts(t *testing.T) {
	s := newTestServer(t, services.WithModels(nil, services.NewMaintenanceModel(constPredictor(300))))
	s.store.AddMaintenance(domain.MaintenanceRecord{ShipID: s.ship.ID, TotalEngineHours: 4700, LastServiceDate: testNow.Add(-time.Hour)})

	other := s.store.AddShip(domain.Ship{Name: "Baltic Runner", EngineType: "Wartsila 46F"})
	s.store.AddMaintenance(domain.MaintenanceRecord{ShipID: other.ID, TotalEngineHours: 100, LastServiceDate: testNow.AddDate(-1, 0, 0)})

	rec := s.do(http.MethodGet, "/maintenance-alerts", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	type alertsBody struct {
		Alerts []struct {
			ShipID                   string     `json:"shipId"`
			ShipEngineType           string     `json:"shipEngineType"`
			AlertLevel               string     `json:"alertLevel"`
			Reason                   string     `json:"reason"`
			PredictedNextServiceDate *time.Time `json:"predictedNextServiceDate"`
		} `json:"alerts"`
	}
	res := decodeBody[alertsBody](t, rec)
	require.Len(t, res.Alerts, 2)

	levels := map[string]string{}
	for _, a := range res.Alerts {
		levels[a.ShipID] = a.AlertLevel
		if a.AlertLevel == "CRITICAL" {
			assert.Nil(t, a.PredictedNextServiceDate)
			assert.Equal(t, "Wartsila 46F", a.ShipEngineType)
		} else {
			require.NotNil(t, a.PredictedNextServiceDate)
			assert.True(t, a.PredictedNextServiceDate.Equal(testNow.Add(300*time.Hour)))
		}
	}
	assert.Equal(t, "WARNING", levels[s.ship.ID])
	assert.Equal(t, "CRITICAL", levels[other.ID])
}

func TestMaintenanceAlertsWithoutModel(t *testing.T) {
	s := newTestServer(t)
	s.store.AddMaintenance(domain.MaintenanceRecord{ShipID: s.ship.ID, TotalEngineHours: 10, LastServiceDate: testNow})

	rec := s.do(http.MethodGet, "/maintenance-alerts", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/health", "")
	s.do(http.MethodGet, "/nope", "")

	rec := s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/health",status="200"} 1`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}
