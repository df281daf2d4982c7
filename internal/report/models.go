package report

import "time"

// TripSummary is the per-trip line of the operations report.
type TripSummary struct {
	TripID             string     `json:"trip_id"`
	RouteCode          string     `json:"route_code"`
	TripType           string     `json:"trip_type"`
	Status             string     `json:"status"`
	ScheduledStartTime time.Time  `json:"scheduled_start_time"`
	ActualStartTime    *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime      *time.Time `json:"actual_end_time,omitempty"`
	DurationMinutes    float64    `json:"duration_minutes"`
	DelayMinutes       float64    `json:"delay_minutes"`
	OnTime             bool       `json:"on_time"`
	TotalStudents      int        `json:"total_students"`
	CheckedInStudents  int        `json:"checked_in_students"`
	CheckedOutStudents int        `json:"checked_out_students"`
}

// DailySummary aggregates one day of operations.
type DailySummary struct {
	Date            string  `json:"date"`
	TotalTrips      int     `json:"total_trips"`
	CompletedTrips  int     `json:"completed_trips"`
	CancelledTrips  int     `json:"cancelled_trips"`
	OnTimeTrips     int     `json:"on_time_trips"`
	StudentsCarried int     `json:"students_carried"`
	AvgDelayMinutes float64 `json:"avg_delay_minutes"`
}
