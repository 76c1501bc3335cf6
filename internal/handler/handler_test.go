package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tickethub/internal/clock"
	"github.com/iliyamo/tickethub/internal/repository"
	"github.com/iliyamo/tickethub/internal/service"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	events, err := repository.LoadEventRepo("")
	require.NoError(t, err)
	store := repository.NewBookingRepo()
	clk := clock.NewFixed(fixedNow)
	svc := service.NewBookingService(events, store, clk, service.WithIDGenerator(func() (string, error) {
		return "BKTEST00001", nil
	}))

	log, _ := test.NewNullLogger()
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	e.HTTPErrorHandler = HTTPErrorHandler(log)

	eh := &EventHandler{Events: events}
	bh := &BookingHandler{Bookings: svc}
	hh := &HealthHandler{Events: events, Bookings: svc, Clock: clk}

	e.GET("/", Root)
	e.GET("/api/health", hh.Health)
	e.GET("/api/events", eh.ListEvents)
	e.GET("/api/events/:id", eh.GetEvent)
	e.POST("/api/bookings", bh.CreateBooking)
	e.GET("/api/bookings", bh.ListBookings)
	e.GET("/api/bookings/:id", bh.GetBooking)
	e.DELETE("/api/bookings/:id", bh.CancelBooking)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func ids(items []map[string]any) []float64 {
	out := make([]float64, 0, len(items))
	for _, it := range items {
		out = append(out, it["id"].(float64))
	}
	return out
}

func TestListEvents(t *testing.T) {
	e := newTestEcho(t)

	tests := []struct {
		name   string
		target string
		want   []float64
	}{
		{"all", "/api/events", []float64{1, 2, 3, 4, 5, 6}},
		{"category all", "/api/events?category=all", []float64{1, 2, 3, 4, 5, 6}},
		{"movies", "/api/events?category=movies", []float64{1, 3, 6}},
		{"sports", "/api/events?category=sports", []float64{5}},
		{"unknown", "/api/events?category=opera", []float64{}},
		{"case sensitive", "/api/events?category=Movies", []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, ids(decodeList(t, rec)))
		})
	}
}

func TestListEvents_EmptyIsArray(t *testing.T) {
	e := newTestEcho(t)
	rec := do(e, http.MethodGet, "/api/events?category=opera", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGetEvent(t *testing.T) {
	e := newTestEcho(t)

	rec := do(e, http.MethodGet, "/api/events/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ev := decodeObject(t, rec)
	assert.Equal(t, "Coldplay World Tour", ev["title"])
	assert.Equal(t, float64(2500), ev["price"])
	assert.Len(t, ev["venues"], 1)

	for _, target := range []string{"/api/events/99", "/api/events/abc", "/api/events/-1"} {
		rec = do(e, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, map[string]any{"error": "Event not found"}, decodeObject(t, rec), target)
	}
}

func TestCreateBooking(t *testing.T) {
	e := newTestEcho(t)

	rec := do(e, http.MethodPost, "/api/bookings", `{"event_id":1,"venue_id":1,"time":"10:00 AM","seats":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	b := decodeObject(t, rec)
	assert.Equal(t, "BKTEST00001", b["booking_id"])
	assert.Equal(t, float64(1), b["event_id"])
	assert.Equal(t, "Inception", b["event"])
	assert.Equal(t, float64(1), b["venue_id"])
	assert.Equal(t, "10:00 AM", b["time"])
	assert.Equal(t, float64(2), b["seats"])
	assert.Equal(t, float64(250), b["price"])
	assert.Equal(t, float64(500), b["total"])
	assert.Equal(t, "confirmed", b["status"])
	assert.Equal(t, "2026-03-01T12:00:00Z", b["created_at"])
	assert.NotEmpty(t, b["venue"])
	assert.NotEmpty(t, b["location"])
}

func TestCreateBooking_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing seats", `{"event_id":1,"venue_id":1,"time":"10:00 AM"}`, http.StatusBadRequest, "Missing required fields"},
		{"null field", `{"event_id":1,"venue_id":1,"time":null,"seats":2}`, http.StatusBadRequest, "Missing required fields"},
		{"empty object", `{}`, http.StatusBadRequest, "Missing required fields"},
		{"unknown event", `{"event_id":99,"venue_id":1,"time":"10:00 AM","seats":1}`, http.StatusNotFound, "Event not found"},
		{"foreign venue", `{"event_id":2,"venue_id":1,"time":"7:00 PM","seats":1}`, http.StatusNotFound, "Venue not found"},
		{"bad slot", `{"event_id":1,"venue_id":1,"time":"9:00 AM","seats":1}`, http.StatusBadRequest, "Invalid time slot"},
		{"malformed", `{"event_id":1,`, http.StatusBadRequest, "Invalid request body"},
		{"wrong type", `{"event_id":"1","venue_id":1,"time":"10:00 AM","seats":1}`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(t)
			rec := do(e, http.MethodPost, "/api/bookings", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, map[string]any{"error": tt.msg}, decodeObject(t, rec))

			list := do(e, http.MethodGet, "/api/bookings", "")
			assert.Empty(t, decodeList(t, list))
		})
	}
}

func TestBookingLifecycle(t *testing.T) {
	e := newTestEcho(t)

	rec := do(e, http.MethodGet, "/api/bookings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = do(e, http.MethodPost, "/api/bookings", `{"event_id":6,"venue_id":2,"time":"8:00 PM","seats":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodGet, "/api/bookings/BKTEST00001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(840), decodeObject(t, rec)["total"])

	assert.Len(t, decodeList(t, do(e, http.MethodGet, "/api/bookings", "")), 1)

	rec = do(e, http.MethodDelete, "/api/bookings/BKTEST00001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"message": "Booking cancelled successfully"}, decodeObject(t, rec))

	rec = do(e, http.MethodGet, "/api/bookings/BKTEST00001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "Booking not found"}, decodeObject(t, rec))

	rec = do(e, http.MethodDelete, "/api/bookings/BKTEST00001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "Booking not found"}, decodeObject(t, rec))
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t)
	do(e, http.MethodPost, "/api/bookings", `{"event_id":1,"venue_id":1,"time":"10:00 AM","seats":2}`)

	rec := do(e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"status":         "healthy",
		"timestamp":      "2026-03-01T12:00:00Z",
		"total_events":   float64(6),
		"total_bookings": float64(1),
	}, decodeObject(t, rec))
}

func TestRoot(t *testing.T) {
	e := newTestEcho(t)

	rec := do(e, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"message": "TicketHub API",
		"version": "1.0.0",
		"endpoints": map[string]any{
			"events":   "/api/events",
			"bookings": "/api/bookings",
			"health":   "/api/health",
		},
	}, decodeObject(t, rec))
}

func TestHTTPErrorHandler(t *testing.T) {
	e := newTestEcho(t)

	rec := do(e, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "Not found"}, decodeObject(t, rec))

	rec = do(e, http.MethodPut, "/api/bookings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeObject(t, rec), "error")
}

func TestHTTPErrorHandler_HidesInternalDetail(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(log)
	e.GET("/boom", func(c echo.Context) error { return assert.AnError })

	rec := do(e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "Internal server error"}, decodeObject(t, rec))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "unhandled error", hook.LastEntry().Message)
}
