package report

import (
	"context"

	"backend-schoolbus/internal/db"
)

// Trips starting more than this many minutes late count as delayed.
const onTimeGraceMinutes = 5

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// TripSummaries lists every trip on the given date (YYYY-MM-DD) with derived
// duration, delay and punctuality fields.
func (s *Service) TripSummaries(ctx context.Context, date string) ([]TripSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.id, r.route_code, t.trip_type, t.status, t.scheduled_start_time,
		       t.actual_start_time, t.actual_end_time,
		       t.total_students, t.checked_in_students, t.checked_out_students
		FROM trips t
		JOIN routes r ON r.id = t.route_id
		WHERE t.trip_date = $1
		ORDER BY t.scheduled_start_time
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []TripSummary
	for rows.Next() {
		var ts TripSummary
		if err := rows.Scan(&ts.TripID, &ts.RouteCode, &ts.TripType, &ts.Status, &ts.ScheduledStartTime,
			&ts.ActualStartTime, &ts.ActualEndTime,
			&ts.TotalStudents, &ts.CheckedInStudents, &ts.CheckedOutStudents); err != nil {
			return nil, err
		}
		derive(&ts)
		summaries = append(summaries, ts)
	}
	return summaries, nil
}

// Daily folds a date's trip summaries into one aggregate row.
func (s *Service) Daily(ctx context.Context, date string) (DailySummary, error) {
	summaries, err := s.TripSummaries(ctx, date)
	if err != nil {
		return DailySummary{}, err
	}

	daily := DailySummary{Date: date, TotalTrips: len(summaries)}
	var delaySum float64
	var started int
	for _, ts := range summaries {
		switch ts.Status {
		case "completed":
			daily.CompletedTrips++
		case "cancelled":
			daily.CancelledTrips++
		}
		daily.StudentsCarried += ts.CheckedInStudents
		if ts.ActualStartTime != nil {
			started++
			delaySum += ts.DelayMinutes
			if ts.OnTime {
				daily.OnTimeTrips++
			}
		}
	}
	if started > 0 {
		daily.AvgDelayMinutes = delaySum / float64(started)
	}
	return daily, nil
}

func derive(ts *TripSummary) {
	if ts.ActualStartTime == nil {
		return
	}
	delay := ts.ActualStartTime.Sub(ts.ScheduledStartTime).Minutes()
	if delay < 0 {
		delay = 0
	}
	ts.DelayMinutes = delay
	ts.OnTime = delay <= onTimeGraceMinutes

	if ts.ActualEndTime != nil {
		ts.DurationMinutes = ts.ActualEndTime.Sub(*ts.ActualStartTime).Minutes()
	}
}
