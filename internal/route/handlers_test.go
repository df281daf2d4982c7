package route

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func passthrough(c *fiber.Ctx) error { return c.Next() }

func TestRouteHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO routes`).
		WithArgs(pgxmock.AnyArg(), "R01", "Morning District 1", "", "morning_pickup", pgxmock.AnyArg(), pgxmock.AnyArg(), 0, true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(mock), passthrough)

	body, _ := json.Marshal(Route{RouteCode: "R01", RouteName: "Morning District 1"})
	req := httptest.NewRequest(http.MethodPost, "/routes/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create route status: %v %v", err, resp.StatusCode)
	}
}

func TestRouteHandlersBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(nil), passthrough)

	req := httptest.NewRequest(http.MethodPost, "/routes/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}

	req = httptest.NewRequest(http.MethodPost, "/routes/r-1/stops", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for stop without name")
	}
}

func TestRouteHandlersStops(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, route_id, stop_order, stop_name`).
		WithArgs("route-1").
		WillReturnRows(stopRows().AddRow("s-1", "route-1", 1, "Stop 1", 10.77, 106.67, "", 2, true, now))

	app := fiber.New()
	RegisterRoutes(app.Group("/routes"), NewService(mock), passthrough)

	req := httptest.NewRequest(http.MethodGet, "/routes/route-1/stops", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("stops status: %v", resp.StatusCode)
	}
	var stops []Stop
	_ = json.NewDecoder(resp.Body).Decode(&stops)
	if len(stops) != 1 || stops[0].StopName != "Stop 1" {
		t.Fatalf("unexpected stops: %+v", stops)
	}
}
