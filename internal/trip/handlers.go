package trip

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Trip
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		t, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		driverID := c.Query("driver_id")
		if driverID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "driver_id required")
		}
		trips, err := svc.ListByDriver(c.Context(), driverID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(trips)
	})

	// Snapshot endpoint: the document the live view merges with stream events.
	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		dt, err := svc.Detail(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "trip not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(dt)
	})

	r.Post("/:id/start", authMiddleware, func(c *fiber.Ctx) error {
		t, err := svc.Start(c.Context(), c.Params("id"))
		if err != nil {
			return transitionError(err)
		}
		return c.JSON(t)
	})

	r.Post("/:id/complete", authMiddleware, func(c *fiber.Ctx) error {
		t, err := svc.Complete(c.Context(), c.Params("id"))
		if err != nil {
			return transitionError(err)
		}
		return c.JSON(t)
	})

	r.Post("/:id/cancel", authMiddleware, func(c *fiber.Ctx) error {
		t, err := svc.Cancel(c.Context(), c.Params("id"))
		if err != nil {
			return transitionError(err)
		}
		return c.JSON(t)
	})

	r.Get("/:id/attendance", authMiddleware, func(c *fiber.Ctx) error {
		records, err := svc.ListAttendance(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(records)
	})

	r.Post("/:id/attendance/check-in", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			StudentID string `json:"student_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.StudentID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "student_id required")
		}
		counts, err := svc.CheckIn(c.Context(), c.Params("id"), body.StudentID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(counts)
	})

	r.Post("/:id/attendance/check-out", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			StudentID string `json:"student_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.StudentID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "student_id required")
		}
		counts, err := svc.CheckOut(c.Context(), c.Params("id"), body.StudentID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(counts)
	})
}

func transitionError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "trip not found")
	case errors.Is(err, ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
