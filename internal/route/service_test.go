package route

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func stopRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "route_id", "stop_order", "stop_name", "lat", "lng", "address", "stop_duration", "is_active", "created_at"})
}

func TestCreateAndGetRoute(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO routes`).
		WithArgs(pgxmock.AnyArg(), "R01", "Morning District 1", "desc", "morning_pickup", pgxmock.AnyArg(), pgxmock.AnyArg(), 0, true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	svc := NewService(mock)
	r, err := svc.Create(context.Background(), Route{RouteCode: "R01", RouteName: "Morning District 1", Description: "desc"})
	if err != nil {
		t.Fatalf("create route: %v", err)
	}
	if r.RouteType != "morning_pickup" || !r.IsActive {
		t.Fatalf("unexpected defaults: %+v", r)
	}

	mock.ExpectQuery(`SELECT id, route_code, route_name`).
		WithArgs(r.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "route_code", "route_name", "description", "route_type", "vehicle_id", "driver_id", "estimated_duration", "is_active", "created_at", "updated_at"}).
			AddRow(r.ID, "R01", "Morning District 1", "desc", "morning_pickup", "", "", 0, true, now, now))

	loaded, err := svc.Get(context.Background(), r.ID)
	if err != nil || loaded.RouteCode != "R01" {
		t.Fatalf("get route: %v %+v", err, loaded)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddStopDefaultsDwell(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO route_stops`).
		WithArgs(pgxmock.AnyArg(), "route-1", 1, "Cho Ben Thanh", 106.698, 10.772, "Le Loi", 2, true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	stop, err := NewService(mock).AddStop(context.Background(), Stop{
		RouteID:   "route-1",
		StopOrder: 1,
		StopName:  "Cho Ben Thanh",
		Lat:       10.772,
		Lng:       106.698,
		Address:   "Le Loi",
	})
	if err != nil {
		t.Fatalf("add stop: %v", err)
	}
	if stop.StopDuration != 2 {
		t.Fatalf("expected default dwell of 2, got %d", stop.StopDuration)
	}
}

func TestOptimizeStopsPersistsOrder(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, route_id, stop_order, stop_name`).
		WithArgs("route-1").
		WillReturnRows(stopRows().
			AddRow("far", "route-1", 1, "Far", 10.90, 106.80, "", 2, true, now).
			AddRow("near", "route-1", 2, "Near", 10.77, 106.67, "", 2, true, now))

	mock.ExpectExec(`UPDATE route_stops SET stop_order`).
		WithArgs("near", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE route_stops SET stop_order`).
		WithArgs("far", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ordered, err := NewService(mock).OptimizeStops(context.Background(), "route-1", 10.762, 106.660)
	if err != nil {
		t.Fatalf("optimize stops: %v", err)
	}
	if ordered[0].ID != "near" || ordered[0].StopOrder != 1 {
		t.Fatalf("unexpected optimized order: %+v", ordered)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
