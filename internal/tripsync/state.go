package tripsync

import (
	"backend-schoolbus/internal/trip"
)

// ConnectionStatus is the channel half of the synchronized view.
type ConnectionStatus string

const (
	StatusIdle         ConnectionStatus = "idle"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusFailed       ConnectionStatus = "failed"
)

// TripState is the merged view of one trip: snapshot fields reconciled with
// stream events. Callers receive copies; the client owns the only mutable one.
type TripState struct {
	TripID           string           `json:"trip_id"`
	ConnectionStatus ConnectionStatus `json:"connection_status"`
	TripStatus       string           `json:"trip_status"`
	LastLocation     *trip.Location   `json:"last_location,omitempty"`
	ETAMinutes       *float64         `json:"eta_minutes,omitempty"`
	CheckedIn        int              `json:"checked_in"`
	Total            int              `json:"total"`
	ReconnectAttempt int              `json:"reconnect_attempt"`
	LastError        string           `json:"last_error,omitempty"`
	SnapshotError    string           `json:"snapshot_error,omitempty"`
}

// statusRank orders the trip lifecycle so merges never move it backwards.
// Terminal statuses share the top rank: the first one observed sticks.
func statusRank(status string) int {
	switch status {
	case trip.StatusScheduled:
		return 0
	case trip.StatusInProgress:
		return 1
	case trip.StatusCompleted, trip.StatusCancelled:
		return 2
	default:
		return -1
	}
}

func isTerminal(status string) bool {
	return status == trip.StatusCompleted || status == trip.StatusCancelled
}

// applyTripStatus merges a status observation. The view only moves forward:
// a stale scheduled snapshot cannot undo a streamed in_progress, and a
// terminal status is never replaced.
func (s *TripState) applyTripStatus(status string) {
	rank := statusRank(status)
	if rank < 0 {
		return
	}
	if isTerminal(s.TripStatus) {
		return
	}
	if rank >= statusRank(s.TripStatus) {
		s.TripStatus = status
	}
}

// applyAttendance merges attendance counters. Counts only grow during a trip,
// so a smaller checked-in value is a stale read and is dropped.
func (s *TripState) applyAttendance(checkedIn, total int) {
	if total > 0 {
		s.Total = total
	}
	if checkedIn >= s.CheckedIn {
		s.CheckedIn = checkedIn
	}
}

// applySnapshot merges a REST snapshot per key. Location and ETA are only
// seeded when the stream has not delivered fresher samples already.
func (s *TripState) applySnapshot(snap trip.Detail) {
	s.applyTripStatus(snap.Status)
	s.applyAttendance(snap.CheckedInStudents, snap.TotalStudents)
	if s.LastLocation == nil && snap.CurrentLocation != nil {
		loc := *snap.CurrentLocation
		s.LastLocation = &loc
	}
	if s.ETAMinutes == nil && snap.ETAMinutes != nil {
		eta := *snap.ETAMinutes
		s.ETAMinutes = &eta
	}
}

// applyLocation replaces the last sample unconditionally. Events carry no
// sequence numbers, so arrival order decides.
func (s *TripState) applyLocation(loc trip.Location) {
	s.LastLocation = &loc
}

func (s *TripState) applyETA(minutes float64) {
	s.ETAMinutes = &minutes
}

func (s *TripState) clone() TripState {
	out := *s
	if s.LastLocation != nil {
		loc := *s.LastLocation
		out.LastLocation = &loc
	}
	if s.ETAMinutes != nil {
		eta := *s.ETAMinutes
		out.ETAMinutes = &eta
	}
	return out
}
