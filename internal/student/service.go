package student

import (
	"context"

	"backend-schoolbus/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input Student) (Student, error) {
	input.ID = uuid.NewString()
	input.IsActive = true
	row := s.db.QueryRow(ctx, `
		INSERT INTO students (id, student_code, full_name, class_name, parent_id, route_id, pickup_stop_id, address, pickup_location, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, ST_SetSRID(ST_MakePoint($9,$10), 4326)::geography, $11)
		RETURNING created_at, updated_at
	`, input.ID, input.StudentCode, input.FullName, input.ClassName, nullable(input.ParentID), nullable(input.RouteID), nullable(input.PickupStop), input.Address, input.PickupLng, input.PickupLat, input.IsActive)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Student{}, err
	}
	return input, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Student) (Student, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if patch.StudentCode != "" {
		st.StudentCode = patch.StudentCode
	}
	if patch.FullName != "" {
		st.FullName = patch.FullName
	}
	if patch.ClassName != "" {
		st.ClassName = patch.ClassName
	}
	if patch.ParentID != "" {
		st.ParentID = patch.ParentID
	}
	if patch.RouteID != "" {
		st.RouteID = patch.RouteID
	}
	if patch.PickupStop != "" {
		st.PickupStop = patch.PickupStop
	}
	if patch.Address != "" {
		st.Address = patch.Address
	}
	if patch.PickupLat != 0 {
		st.PickupLat = patch.PickupLat
	}
	if patch.PickupLng != 0 {
		st.PickupLng = patch.PickupLng
	}

	_, err = s.db.Exec(ctx, `
		UPDATE students
		SET student_code=$2, full_name=$3, class_name=$4, parent_id=$5, route_id=$6, pickup_stop_id=$7,
		    address=$8, pickup_location=ST_SetSRID(ST_MakePoint($9,$10), 4326)::geography, updated_at=NOW()
		WHERE id=$1
	`, st.ID, st.StudentCode, st.FullName, st.ClassName, nullable(st.ParentID), nullable(st.RouteID), nullable(st.PickupStop), st.Address, st.PickupLng, st.PickupLat)
	if err != nil {
		return Student{}, err
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, id string) (Student, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, student_code, full_name, class_name, COALESCE(parent_id,''), COALESCE(route_id,''), COALESCE(pickup_stop_id,''),
		       address, ST_Y(pickup_location::geometry), ST_X(pickup_location::geometry), is_active, created_at, updated_at
		FROM students WHERE id=$1
	`, id)
	var st Student
	if err := row.Scan(&st.ID, &st.StudentCode, &st.FullName, &st.ClassName, &st.ParentID, &st.RouteID, &st.PickupStop,
		&st.Address, &st.PickupLat, &st.PickupLng, &st.IsActive, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return Student{}, err
	}
	return st, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE students SET is_active=false, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (s *Service) ListByRoute(ctx context.Context, routeID string) ([]Student, error) {
	return s.list(ctx, `route_id=$1`, routeID)
}

func (s *Service) ListByParent(ctx context.Context, parentID string) ([]Student, error) {
	return s.list(ctx, `parent_id=$1`, parentID)
}

func (s *Service) list(ctx context.Context, where string, arg any) ([]Student, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, student_code, full_name, class_name, COALESCE(parent_id,''), COALESCE(route_id,''), COALESCE(pickup_stop_id,''),
		       address, ST_Y(pickup_location::geometry), ST_X(pickup_location::geometry), is_active, created_at, updated_at
		FROM students WHERE is_active AND `+where+`
		ORDER BY full_name
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.StudentCode, &st.FullName, &st.ClassName, &st.ParentID, &st.RouteID, &st.PickupStop,
			&st.Address, &st.PickupLat, &st.PickupLng, &st.IsActive, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
