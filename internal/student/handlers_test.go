package student

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func passthrough(c *fiber.Ctx) error { return c.Next() }

func TestStudentHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO students`).
		WithArgs(pgxmock.AnyArg(), "HS001", "Nguyen Van A", "1A", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"addr", 106.66, 10.762, true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	app := fiber.New()
	RegisterRoutes(app.Group("/students"), NewService(mock), passthrough)

	body, _ := json.Marshal(Student{StudentCode: "HS001", FullName: "Nguyen Van A", ClassName: "1A", Address: "addr", PickupLat: 10.762, PickupLng: 106.66})
	req := httptest.NewRequest(http.MethodPost, "/students/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create student status: %v %v", err, resp.StatusCode)
	}

	mock.ExpectQuery(`SELECT id, student_code, full_name, class_name`).
		WithArgs("st-1").
		WillReturnRows(studentRows().AddRow("st-1", "HS001", "Nguyen Van A", "1A", "", "", "", "addr", 10.762, 106.66, true, now, now))

	req = httptest.NewRequest(http.MethodGet, "/students/st-1", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get student status: %v", resp.StatusCode)
	}
}

func TestStudentHandlersBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/students"), NewService(nil), passthrough)

	req := httptest.NewRequest(http.MethodPost, "/students/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}

	req = httptest.NewRequest(http.MethodGet, "/students/", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for list without filter")
	}
}

func TestStudentHandlersListByRoute(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, student_code, full_name, class_name`).
		WithArgs("route-1").
		WillReturnRows(studentRows().AddRow("st-1", "HS001", "A", "1A", "", "route-1", "", "addr", 10.0, 106.0, true, now, now))

	app := fiber.New()
	RegisterRoutes(app.Group("/students"), NewService(mock), passthrough)

	req := httptest.NewRequest(http.MethodGet, "/students/?route_id=route-1", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", resp.StatusCode)
	}
	var students []Student
	_ = json.NewDecoder(resp.Body).Decode(&students)
	if len(students) != 1 || students[0].StudentCode != "HS001" {
		t.Fatalf("unexpected list payload: %+v", students)
	}
}
