package route

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

func (s *Service) Create(ctx context.Context, input Route) (Route, error) {
	input.ID = uuid.NewString()
	if input.RouteType == "" {
		input.RouteType = "morning_pickup"
	}
	input.IsActive = true
	row := s.db.QueryRow(ctx, `
		INSERT INTO routes (id, route_code, route_name, description, route_type, vehicle_id, driver_id, estimated_duration, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at
	`, input.ID, input.RouteCode, input.RouteName, input.Description, input.RouteType,
		nullable(input.VehicleID), nullable(input.DriverID), input.EstimatedDuration, input.IsActive)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Route{}, err
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Route, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, route_code, route_name, COALESCE(description,''), route_type, COALESCE(vehicle_id,''), COALESCE(driver_id,''),
		       COALESCE(estimated_duration,0), is_active, created_at, updated_at
		FROM routes WHERE id=$1
	`, id)
	var r Route
	if err := row.Scan(&r.ID, &r.RouteCode, &r.RouteName, &r.Description, &r.RouteType, &r.VehicleID, &r.DriverID,
		&r.EstimatedDuration, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return Route{}, err
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Route) (Route, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return Route{}, err
	}
	if patch.RouteCode != "" {
		r.RouteCode = patch.RouteCode
	}
	if patch.RouteName != "" {
		r.RouteName = patch.RouteName
	}
	if patch.Description != "" {
		r.Description = patch.Description
	}
	if patch.RouteType != "" {
		r.RouteType = patch.RouteType
	}
	if patch.VehicleID != "" {
		r.VehicleID = patch.VehicleID
	}
	if patch.DriverID != "" {
		r.DriverID = patch.DriverID
	}
	if patch.EstimatedDuration != 0 {
		r.EstimatedDuration = patch.EstimatedDuration
	}

	_, err = s.db.Exec(ctx, `
		UPDATE routes
		SET route_code=$2, route_name=$3, description=$4, route_type=$5, vehicle_id=$6, driver_id=$7, estimated_duration=$8, updated_at=NOW()
		WHERE id=$1
	`, r.ID, r.RouteCode, r.RouteName, r.Description, r.RouteType, nullable(r.VehicleID), nullable(r.DriverID), r.EstimatedDuration)
	if err != nil {
		return Route{}, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE routes SET is_active=false, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (s *Service) List(ctx context.Context) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, route_code, route_name, COALESCE(description,''), route_type, COALESCE(vehicle_id,''), COALESCE(driver_id,''),
		       COALESCE(estimated_duration,0), is_active, created_at, updated_at
		FROM routes WHERE is_active
		ORDER BY route_code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.RouteCode, &r.RouteName, &r.Description, &r.RouteType, &r.VehicleID, &r.DriverID,
			&r.EstimatedDuration, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func (s *Service) AddStop(ctx context.Context, stop Stop) (Stop, error) {
	stop.ID = uuid.NewString()
	if stop.StopDuration == 0 {
		stop.StopDuration = 2
	}
	stop.IsActive = true
	row := s.db.QueryRow(ctx, `
		INSERT INTO route_stops (id, route_id, stop_order, stop_name, location, address, stop_duration, is_active)
		VALUES ($1,$2,$3,$4, ST_SetSRID(ST_MakePoint($5,$6), 4326)::geography, $7, $8, $9)
		RETURNING created_at
	`, stop.ID, stop.RouteID, stop.StopOrder, stop.StopName, stop.Lng, stop.Lat, stop.Address, stop.StopDuration, stop.IsActive)
	if err := row.Scan(&stop.CreatedAt); err != nil {
		return Stop{}, err
	}
	return stop, nil
}

func (s *Service) Stops(ctx context.Context, routeID string) ([]Stop, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, route_id, stop_order, stop_name, ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(address,''), COALESCE(stop_duration,2), is_active, created_at
		FROM route_stops WHERE route_id=$1 AND is_active
		ORDER BY stop_order
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []Stop
	for rows.Next() {
		var st Stop
		if err := rows.Scan(&st.ID, &st.RouteID, &st.StopOrder, &st.StopName, &st.Lat, &st.Lng,
			&st.Address, &st.StopDuration, &st.IsActive, &st.CreatedAt); err != nil {
			return nil, err
		}
		stops = append(stops, st)
	}
	return stops, nil
}

// OptimizeStops reorders a route's stops with a nearest-neighbor pass from the
// given start position and persists the new ordering.
func (s *Service) OptimizeStops(ctx context.Context, routeID string, startLat, startLng float64) ([]Stop, error) {
	stops, err := s.Stops(ctx, routeID)
	if err != nil {
		return nil, err
	}

	ordered := OrderByNearestNeighbor(stops, startLat, startLng)
	for i := range ordered {
		ordered[i].StopOrder = i + 1
		if _, err := s.db.Exec(ctx, `UPDATE route_stops SET stop_order=$2 WHERE id=$1`, ordered[i].ID, ordered[i].StopOrder); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
