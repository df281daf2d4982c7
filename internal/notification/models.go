package notification

import "time"

const (
	TypeTripStarted   = "trip_started"
	TypeTripCompleted = "trip_completed"
	TypeTripCancelled = "trip_cancelled"
	TypeCheckIn       = "check_in"
	TypeCheckOut      = "check_out"
	TypeDelay         = "delay"
	TypeGeneral       = "general"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TripID    string    `json:"trip_id,omitempty"`
	Type      string    `json:"notification_type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
