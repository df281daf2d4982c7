package route

import "time"

type Route struct {
	ID                string    `json:"id"`
	RouteCode         string    `json:"route_code"`
	RouteName         string    `json:"route_name"`
	Description       string    `json:"description"`
	RouteType         string    `json:"route_type"`
	VehicleID         string    `json:"vehicle_id"`
	DriverID          string    `json:"driver_id"`
	EstimatedDuration int       `json:"estimated_duration_minutes"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Stop struct {
	ID           string    `json:"id"`
	RouteID      string    `json:"route_id"`
	StopOrder    int       `json:"stop_order"`
	StopName     string    `json:"stop_name"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Address      string    `json:"address"`
	StopDuration int       `json:"stop_duration_minutes"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
