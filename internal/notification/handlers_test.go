package notification

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func TestNotificationHandlers(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO notifications`).
		WithArgs(pgxmock.AnyArg(), "u-1", pgxmock.AnyArg(), TypeGeneral, "Hello", "Welcome").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/notifications"), NewService(mock, nil), asUser("u-1"))

	body := bytes.NewReader([]byte(`{"user_id":"u-1","title":"Hello","message":"Welcome"}`))
	req := httptest.NewRequest(http.MethodPost, "/notifications/", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create notification: %v %v", err, resp.StatusCode)
	}
}

func TestNotificationHandlersList(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`FROM notifications`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "trip_id", "notification_type", "title", "message", "is_read", "created_at"}))

	app := fiber.New()
	RegisterRoutes(app.Group("/notifications"), NewService(mock, nil), asUser("u-1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notifications/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list notifications: %v %v", err, resp.StatusCode)
	}
}

func TestNotificationHandlersMarkRead(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectExec(`UPDATE notifications SET is_read`).
		WithArgs("n-1", "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := fiber.New()
	RegisterRoutes(app.Group("/notifications"), NewService(mock, nil), asUser("u-1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/notifications/n-1/read", nil))
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("mark read: %v %v", err, resp.StatusCode)
	}
}
