package trip

import (
	"context"
	"errors"
	"time"

	"backend-schoolbus/internal/db"
	"backend-schoolbus/internal/route"
	"backend-schoolbus/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound          = errors.New("trip not found")
	ErrInvalidTransition = errors.New("invalid trip status transition")
)

type Service struct {
	db     db.Querier
	hub    *stream.Hub
	routes *route.Service
}

func NewService(db db.Querier, hub *stream.Hub, routes *route.Service) *Service {
	return &Service{db: db, hub: hub, routes: routes}
}

func (s *Service) Create(ctx context.Context, input Trip) (Trip, error) {
	if input.RouteID == "" || input.DriverID == "" || input.VehicleID == "" {
		return Trip{}, errors.New("route_id, driver_id and vehicle_id required")
	}
	input.ID = uuid.NewString()
	if input.TripType == "" {
		input.TripType = TypeMorningPickup
	}
	input.Status = StatusScheduled

	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (id, route_id, driver_id, vehicle_id, trip_date, trip_type, scheduled_start_time, status, total_students, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,
			(SELECT COUNT(*) FROM students WHERE route_id=$2 AND is_active), $9)
		RETURNING total_students, created_at, updated_at
	`, input.ID, input.RouteID, input.DriverID, input.VehicleID, input.TripDate, input.TripType,
		input.ScheduledStartTime, input.Status, input.Notes)
	if err := row.Scan(&input.TotalStudents, &input.CreatedAt, &input.UpdatedAt); err != nil {
		return Trip{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, route_id, driver_id, vehicle_id, trip_date, trip_type, scheduled_start_time,
		       actual_start_time, actual_end_time, status, total_students, checked_in_students, checked_out_students,
		       COALESCE(notes,''), created_at, updated_at
		FROM trips WHERE id=$1
	`, id)
	var t Trip
	if err := row.Scan(&t.ID, &t.RouteID, &t.DriverID, &t.VehicleID, &t.TripDate, &t.TripType, &t.ScheduledStartTime,
		&t.ActualStartTime, &t.ActualEndTime, &t.Status, &t.TotalStudents, &t.CheckedInStudents, &t.CheckedOutStudents,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trip{}, ErrNotFound
		}
		return Trip{}, err
	}
	return t, nil
}

// Detail builds the full snapshot: trip row joined with route, driver and
// vehicle descriptors plus the latest location sample, if any.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	row := s.db.QueryRow(ctx, `
		SELECT t.id, t.route_id, t.driver_id, t.vehicle_id, t.trip_date, t.trip_type, t.scheduled_start_time,
		       t.actual_start_time, t.actual_end_time, t.status, t.total_students, t.checked_in_students, t.checked_out_students,
		       COALESCE(t.notes,''), t.created_at, t.updated_at,
		       r.route_code, r.route_name, d.full_name, d.phone, v.plate_number
		FROM trips t
		JOIN routes r ON r.id = t.route_id
		JOIN drivers d ON d.id = t.driver_id
		JOIN vehicles v ON v.id = t.vehicle_id
		WHERE t.id=$1
	`, id)
	var dt Detail
	if err := row.Scan(&dt.ID, &dt.RouteID, &dt.DriverID, &dt.VehicleID, &dt.TripDate, &dt.TripType, &dt.ScheduledStartTime,
		&dt.ActualStartTime, &dt.ActualEndTime, &dt.Status, &dt.TotalStudents, &dt.CheckedInStudents, &dt.CheckedOutStudents,
		&dt.Notes, &dt.CreatedAt, &dt.UpdatedAt,
		&dt.RouteCode, &dt.RouteName, &dt.DriverName, &dt.DriverPhone, &dt.VehiclePlate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}

	if loc, err := s.latestLocation(ctx, id); err == nil {
		dt.CurrentLocation = &loc
	}
	return dt, nil
}

// Snapshot adapts Detail for the stream handler's initial_data push.
func (s *Service) Snapshot(ctx context.Context, tripID string) (any, error) {
	return s.Detail(ctx, tripID)
}

func (s *Service) ListByDriver(ctx context.Context, driverID string) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, route_id, driver_id, vehicle_id, trip_date, trip_type, scheduled_start_time,
		       actual_start_time, actual_end_time, status, total_students, checked_in_students, checked_out_students,
		       COALESCE(notes,''), created_at, updated_at
		FROM trips WHERE driver_id=$1
		ORDER BY trip_date DESC, scheduled_start_time DESC
	`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var t Trip
		if err := rows.Scan(&t.ID, &t.RouteID, &t.DriverID, &t.VehicleID, &t.TripDate, &t.TripType, &t.ScheduledStartTime,
			&t.ActualStartTime, &t.ActualEndTime, &t.Status, &t.TotalStudents, &t.CheckedInStudents, &t.CheckedOutStudents,
			&t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, nil
}

// Start moves a scheduled trip to in_progress and flips the driver on_trip.
func (s *Service) Start(ctx context.Context, id string) (Trip, error) {
	return s.transition(ctx, id, StatusScheduled, StatusInProgress, "actual_start_time")
}

// Complete moves an in_progress trip to completed and releases the driver.
func (s *Service) Complete(ctx context.Context, id string) (Trip, error) {
	return s.transition(ctx, id, StatusInProgress, StatusCompleted, "actual_end_time")
}

// Cancel marks a trip cancelled from any non-terminal state.
func (s *Service) Cancel(ctx context.Context, id string) (Trip, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return Trip{}, err
	}
	if t.Status == StatusCompleted || t.Status == StatusCancelled {
		return Trip{}, ErrInvalidTransition
	}

	if _, err := s.db.Exec(ctx, `UPDATE trips SET status=$2, updated_at=NOW() WHERE id=$1`, id, StatusCancelled); err != nil {
		return Trip{}, err
	}
	if t.Status == StatusInProgress {
		if _, err := s.db.Exec(ctx, `UPDATE drivers SET status='available' WHERE id=$1`, t.DriverID); err != nil {
			return Trip{}, err
		}
	}
	t.Status = StatusCancelled

	s.broadcastTripUpdate(t)
	return t, nil
}

func (s *Service) transition(ctx context.Context, id, from, to, timestampColumn string) (Trip, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return Trip{}, err
	}
	if t.Status != from {
		return Trip{}, ErrInvalidTransition
	}

	now := time.Now()
	if _, err := s.db.Exec(ctx, `UPDATE trips SET status=$2, `+timestampColumn+`=$3, updated_at=NOW() WHERE id=$1`, id, to, now); err != nil {
		return Trip{}, err
	}

	driverStatus := "available"
	if to == StatusInProgress {
		driverStatus = "on_trip"
	}
	if _, err := s.db.Exec(ctx, `UPDATE drivers SET status=$2 WHERE id=$1`, t.DriverID, driverStatus); err != nil {
		return Trip{}, err
	}

	t.Status = to
	if to == StatusInProgress {
		t.ActualStartTime = &now
	} else {
		t.ActualEndTime = &now
	}

	s.broadcastTripUpdate(t)
	return t, nil
}

// SaveLocation persists a GPS sample and rebroadcasts it to every watcher of
// the trip. Samples for trips that are not in progress are rejected.
func (s *Service) SaveLocation(ctx context.Context, tripID string, msg stream.LocationUpdate) error {
	t, err := s.Get(ctx, tripID)
	if err != nil {
		return err
	}
	if t.Status != StatusInProgress {
		return errors.New("trip is not in progress")
	}

	loc := Location{
		Lat:        msg.Lat,
		Lng:        msg.Lng,
		Speed:      msg.Speed,
		Heading:    msg.Heading,
		Accuracy:   msg.Accuracy,
		ObservedAt: time.Now(),
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO location_logs (trip_id, location, speed, heading, accuracy, recorded_at)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2,$3), 4326)::geography, $4, $5, $6, $7)
	`, tripID, loc.Lng, loc.Lat, loc.Speed, loc.Heading, loc.Accuracy, loc.ObservedAt)
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(tripID, "location_update", loc)
	}
	return nil
}

// BroadcastETA estimates minutes to the given stop from the latest sample and
// pushes an eta_update envelope.
func (s *Service) BroadcastETA(ctx context.Context, tripID, stopID string) error {
	t, err := s.Get(ctx, tripID)
	if err != nil {
		return err
	}
	loc, err := s.latestLocation(ctx, tripID)
	if err != nil {
		return errors.New("no location recorded yet")
	}
	stops, err := s.routes.Stops(ctx, t.RouteID)
	if err != nil {
		return err
	}

	minutes := route.EstimateETAMinutes(loc.Lat, loc.Lng, loc.Speed, stops, stopID)
	if s.hub != nil {
		s.hub.BroadcastEvent(tripID, "eta_update", map[string]any{
			"stop_id":           stopID,
			"minutes_remaining": minutes,
		})
	}
	return nil
}

// CheckIn records a student boarding and bumps the trip counter.
func (s *Service) CheckIn(ctx context.Context, tripID, studentID string) (AttendanceCounts, error) {
	return s.attend(ctx, tripID, studentID, "check_in_time", "checked_in_students")
}

// CheckOut records a student alighting and bumps the trip counter.
func (s *Service) CheckOut(ctx context.Context, tripID, studentID string) (AttendanceCounts, error) {
	return s.attend(ctx, tripID, studentID, "check_out_time", "checked_out_students")
}

func (s *Service) attend(ctx context.Context, tripID, studentID, timeColumn, counterColumn string) (AttendanceCounts, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO attendance (id, trip_id, student_id, status, `+timeColumn+`)
		VALUES ($1,$2,$3,'present',NOW())
		ON CONFLICT (trip_id, student_id) DO UPDATE SET status='present', `+timeColumn+`=NOW()
	`, uuid.NewString(), tripID, studentID)
	if err != nil {
		return AttendanceCounts{}, err
	}

	counts := AttendanceCounts{TripID: tripID}
	row := s.db.QueryRow(ctx, `
		UPDATE trips SET `+counterColumn+` = `+counterColumn+` + 1, updated_at=NOW()
		WHERE id=$1
		RETURNING checked_in_students, checked_out_students, total_students
	`, tripID)
	if err := row.Scan(&counts.CheckedIn, &counts.CheckedOut, &counts.Total); err != nil {
		return AttendanceCounts{}, err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(tripID, "attendance", counts)
	}
	return counts, nil
}

// ListAttendance returns the per-student attendance rows behind the trip's
// counters, newest check-in first.
func (s *Service) ListAttendance(ctx context.Context, tripID string) ([]AttendanceRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, student_id, status, check_in_time, check_out_time
		FROM attendance
		WHERE trip_id=$1
		ORDER BY check_in_time DESC NULLS LAST
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AttendanceRecord
	for rows.Next() {
		var rec AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.TripID, &rec.StudentID, &rec.Status, &rec.CheckInTime, &rec.CheckOutTime); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Service) latestLocation(ctx context.Context, tripID string) (Location, error) {
	row := s.db.QueryRow(ctx, `
		SELECT ST_Y(location::geometry), ST_X(location::geometry), COALESCE(speed,0), COALESCE(heading,0), COALESCE(accuracy,0), recorded_at
		FROM location_logs
		WHERE trip_id=$1
		ORDER BY recorded_at DESC
		LIMIT 1
	`, tripID)
	var loc Location
	if err := row.Scan(&loc.Lat, &loc.Lng, &loc.Speed, &loc.Heading, &loc.Accuracy, &loc.ObservedAt); err != nil {
		return Location{}, err
	}
	return loc, nil
}

func (s *Service) broadcastTripUpdate(t Trip) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(t.ID, "trip_update", map[string]any{
		"id":     t.ID,
		"status": t.Status,
	})
}
