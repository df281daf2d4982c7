package notification

import (
	"context"
	"errors"

	"backend-schoolbus/internal/db"
	"backend-schoolbus/internal/stream"

	"github.com/google/uuid"
)

var validTypes = map[string]bool{
	TypeTripStarted:   true,
	TypeTripCompleted: true,
	TypeTripCancelled: true,
	TypeCheckIn:       true,
	TypeCheckOut:      true,
	TypeDelay:         true,
	TypeGeneral:       true,
}

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Create stores a notification and, when it is tied to a trip, pushes it on
// the trip channel so watchers see it without polling.
func (s *Service) Create(ctx context.Context, input Notification) (Notification, error) {
	if input.UserID == "" {
		return Notification{}, errors.New("user_id required")
	}
	if input.Type == "" {
		input.Type = TypeGeneral
	}
	if !validTypes[input.Type] {
		return Notification{}, errors.New("unknown notification type")
	}
	input.ID = uuid.NewString()
	input.IsRead = false

	row := s.db.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, trip_id, notification_type, title, message, is_read)
		VALUES ($1,$2,$3,$4,$5,$6,false)
		RETURNING created_at
	`, input.ID, input.UserID, nullable(input.TripID), input.Type, input.Title, input.Message)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Notification{}, err
	}

	if s.hub != nil && input.TripID != "" {
		s.hub.BroadcastEvent(input.TripID, "notification", input)
	}
	return input, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error) {
	query := `
		SELECT id, user_id, COALESCE(trip_id,''), notification_type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id=$1
	`
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.TripID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, nil
}

func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := s.db.Exec(ctx, `UPDATE notifications SET is_read=true WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `UPDATE notifications SET is_read=true WHERE user_id=$1 AND NOT is_read`, userID)
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
