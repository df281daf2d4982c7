package student

import "time"

type Student struct {
	ID          string    `json:"id"`
	StudentCode string    `json:"student_code"`
	FullName    string    `json:"full_name"`
	ClassName   string    `json:"class_name"`
	ParentID    string    `json:"parent_id"`
	RouteID     string    `json:"route_id"`
	PickupStop  string    `json:"pickup_stop_id"`
	Address     string    `json:"address"`
	PickupLat   float64   `json:"pickup_lat"`
	PickupLng   float64   `json:"pickup_lng"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
