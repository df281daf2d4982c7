package driver

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

func (s *Service) Create(ctx context.Context, input Driver) (Driver, error) {
	input.ID = uuid.NewString()
	if input.Status == "" {
		input.Status = StatusAvailable
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO drivers (id, user_id, full_name, phone, license_number, license_expiry, experience_years, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.UserID, input.FullName, input.Phone, input.LicenseNumber, input.LicenseExpiry, input.ExperienceYears, input.Status)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Driver{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, full_name, phone, license_number, license_expiry, experience_years, status, created_at
		FROM drivers WHERE id=$1
	`, id)
	var d Driver
	if err := row.Scan(&d.ID, &d.UserID, &d.FullName, &d.Phone, &d.LicenseNumber, &d.LicenseExpiry, &d.ExperienceYears, &d.Status, &d.CreatedAt); err != nil {
		return Driver{}, err
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Driver) (Driver, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Driver{}, err
	}
	if patch.FullName != "" {
		d.FullName = patch.FullName
	}
	if patch.Phone != "" {
		d.Phone = patch.Phone
	}
	if patch.LicenseNumber != "" {
		d.LicenseNumber = patch.LicenseNumber
	}
	if !patch.LicenseExpiry.IsZero() {
		d.LicenseExpiry = patch.LicenseExpiry
	}
	if patch.ExperienceYears != 0 {
		d.ExperienceYears = patch.ExperienceYears
	}

	_, err = s.db.Exec(ctx, `
		UPDATE drivers
		SET full_name=$2, phone=$3, license_number=$4, license_expiry=$5, experience_years=$6
		WHERE id=$1
	`, d.ID, d.FullName, d.Phone, d.LicenseNumber, d.LicenseExpiry, d.ExperienceYears)
	if err != nil {
		return Driver{}, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM drivers WHERE id=$1`, id)
	return err
}

func (s *Service) List(ctx context.Context) ([]Driver, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, full_name, phone, license_number, license_expiry, experience_years, status, created_at
		FROM drivers
		ORDER BY full_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.UserID, &d.FullName, &d.Phone, &d.LicenseNumber, &d.LicenseExpiry, &d.ExperienceYears, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

// SetStatus flips the duty status; trip start/complete calls this so that a
// driver is never dispatched onto two trips at once.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusAvailable && status != StatusOnTrip && status != StatusOffDuty {
		return errors.New("unknown driver status")
	}
	_, err := s.db.Exec(ctx, `UPDATE drivers SET status=$2 WHERE id=$1`, id, status)
	return err
}
