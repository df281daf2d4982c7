package vehicle

import (
	"context"
	"errors"

	"backend-schoolbus/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input Vehicle) (Vehicle, error) {
	if input.Capacity < 5 {
		return Vehicle{}, errors.New("capacity must be at least 5")
	}
	input.ID = uuid.NewString()
	if input.VehicleType == "" {
		input.VehicleType = "bus"
	}
	input.IsActive = true
	row := s.db.QueryRow(ctx, `
		INSERT INTO vehicles (id, plate_number, vehicle_type, capacity, model, gps_device_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, input.ID, input.PlateNumber, input.VehicleType, input.Capacity, input.Model, input.GPSDeviceID, input.IsActive)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Vehicle{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Vehicle, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, plate_number, vehicle_type, capacity, COALESCE(model,''), COALESCE(gps_device_id,''), is_active, created_at, updated_at
		FROM vehicles WHERE id=$1
	`, id)
	var v Vehicle
	if err := row.Scan(&v.ID, &v.PlateNumber, &v.VehicleType, &v.Capacity, &v.Model, &v.GPSDeviceID, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Vehicle) (Vehicle, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return Vehicle{}, err
	}
	if patch.PlateNumber != "" {
		v.PlateNumber = patch.PlateNumber
	}
	if patch.VehicleType != "" {
		v.VehicleType = patch.VehicleType
	}
	if patch.Capacity != 0 {
		v.Capacity = patch.Capacity
	}
	if patch.Model != "" {
		v.Model = patch.Model
	}
	if patch.GPSDeviceID != "" {
		v.GPSDeviceID = patch.GPSDeviceID
	}

	_, err = s.db.Exec(ctx, `
		UPDATE vehicles
		SET plate_number=$2, vehicle_type=$3, capacity=$4, model=$5, gps_device_id=$6, updated_at=NOW()
		WHERE id=$1
	`, v.ID, v.PlateNumber, v.VehicleType, v.Capacity, v.Model, v.GPSDeviceID)
	if err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE vehicles SET is_active=false, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (s *Service) List(ctx context.Context) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, plate_number, vehicle_type, capacity, COALESCE(model,''), COALESCE(gps_device_id,''), is_active, created_at, updated_at
		FROM vehicles WHERE is_active
		ORDER BY plate_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNumber, &v.VehicleType, &v.Capacity, &v.Model, &v.GPSDeviceID, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}
