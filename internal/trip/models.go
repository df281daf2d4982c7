package trip

import "time"

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	TypeMorningPickup    = "morning_pickup"
	TypeAfternoonDropoff = "afternoon_dropoff"
)

type Trip struct {
	ID                 string     `json:"id"`
	RouteID            string     `json:"route_id"`
	DriverID           string     `json:"driver_id"`
	VehicleID          string     `json:"vehicle_id"`
	TripDate           time.Time  `json:"trip_date"`
	TripType           string     `json:"trip_type"`
	ScheduledStartTime time.Time  `json:"scheduled_start_time"`
	ActualStartTime    *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime      *time.Time `json:"actual_end_time,omitempty"`
	Status             string     `json:"status"`
	TotalStudents      int        `json:"total_students"`
	CheckedInStudents  int        `json:"checked_in_students"`
	CheckedOutStudents int        `json:"checked_out_students"`
	Notes              string     `json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Location is one GPS sample attached to a trip.
type Location struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Speed      float64   `json:"speed"`
	Heading    float64   `json:"heading"`
	Accuracy   float64   `json:"accuracy"`
	ObservedAt time.Time `json:"timestamp"`
}

// Detail is the snapshot document served over REST and pushed as
// initial_data on the trip channel.
type Detail struct {
	Trip
	RouteCode       string    `json:"route_code"`
	RouteName       string    `json:"route_name"`
	DriverName      string    `json:"driver_name"`
	DriverPhone     string    `json:"driver_phone"`
	VehiclePlate    string    `json:"vehicle_plate"`
	CurrentLocation *Location `json:"current_location,omitempty"`
	ETAMinutes      *float64  `json:"eta_minutes,omitempty"`
}

type AttendanceRecord struct {
	ID           string     `json:"id"`
	TripID       string     `json:"trip_id"`
	StudentID    string     `json:"student_id"`
	Status       string     `json:"status"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
}

// AttendanceCounts rides on the attendance broadcast so watchers can update
// counters without a snapshot round-trip.
type AttendanceCounts struct {
	TripID     string `json:"trip_id"`
	CheckedIn  int    `json:"checked_in_students"`
	CheckedOut int    `json:"checked_out_students"`
	Total      int    `json:"total_students"`
}
