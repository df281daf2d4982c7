package vehicle

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func vehicleRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "plate_number", "vehicle_type", "capacity", "model", "gps_device_id", "is_active", "created_at", "updated_at"})
}

func TestCreateVehicle(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO vehicles`).
		WithArgs(pgxmock.AnyArg(), "51B-123.45", "bus", 29, "Thaco TB85", "gps-7", true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	v, err := NewService(mock).Create(context.Background(), Vehicle{
		PlateNumber: "51B-123.45",
		Capacity:    29,
		Model:       "Thaco TB85",
		GPSDeviceID: "gps-7",
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	if v.VehicleType != "bus" || !v.IsActive {
		t.Fatalf("unexpected defaults: %+v", v)
	}
}

func TestCreateVehicleCapacityTooSmall(t *testing.T) {
	_, err := NewService(nil).Create(context.Background(), Vehicle{PlateNumber: "x", Capacity: 2})
	if err == nil {
		t.Fatalf("expected capacity error")
	}
}

func TestUpdateVehicle(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, plate_number, vehicle_type, capacity`).
		WithArgs("v-1").
		WillReturnRows(vehicleRows().AddRow("v-1", "51B-123.45", "bus", 29, "", "", true, now, now))
	mock.ExpectExec(`UPDATE vehicles`).
		WithArgs("v-1", "51B-123.45", "bus", 45, "", "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	v, err := NewService(mock).Update(context.Background(), "v-1", Vehicle{Capacity: 45})
	if err != nil {
		t.Fatalf("update vehicle: %v", err)
	}
	if v.Capacity != 45 {
		t.Fatalf("unexpected capacity: %d", v.Capacity)
	}
}

func TestListVehicles(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, plate_number, vehicle_type, capacity`).
		WillReturnRows(vehicleRows().AddRow("v-1", "51B-1", "bus", 29, "", "", true, now, now))

	vehicles, err := NewService(mock).List(context.Background())
	if err != nil || len(vehicles) != 1 {
		t.Fatalf("list vehicles: %v (%d)", err, len(vehicles))
	}
}
