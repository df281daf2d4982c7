package server

import (
	"backend-schoolbus/internal/auth"
	"backend-schoolbus/internal/backup"
	"backend-schoolbus/internal/config"
	"backend-schoolbus/internal/driver"
	"backend-schoolbus/internal/notification"
	"backend-schoolbus/internal/report"
	"backend-schoolbus/internal/route"
	"backend-schoolbus/internal/stream"
	"backend-schoolbus/internal/student"
	"backend-schoolbus/internal/trip"
	"backend-schoolbus/internal/vehicle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	routeSvc := route.NewService(s.DB)
	tripSvc := trip.NewService(s.DB, s.Stream, routeSvc)

	// REST lives under /api; the websocket channel sits at the root so
	// clients can derive its URL by stripping the /api suffix.
	api := s.App.Group("/api")
	auth.RegisterRoutes(api.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	student.RegisterRoutes(api.Group("/students"), student.NewService(s.DB), jwtMiddleware)
	driver.RegisterRoutes(api.Group("/drivers"), driver.NewService(s.DB), jwtMiddleware)
	vehicle.RegisterRoutes(api.Group("/vehicles"), vehicle.NewService(s.DB), jwtMiddleware)
	route.RegisterRoutes(api.Group("/routes"), routeSvc, jwtMiddleware)
	trip.RegisterRoutes(api.Group("/trips"), tripSvc, jwtMiddleware)
	notification.RegisterRoutes(api.Group("/notifications"), notification.NewService(s.DB, s.Stream), jwtMiddleware)
	report.RegisterRoutes(api.Group("/reports", jwtMiddleware), report.NewService(s.DB), auth.RequireRole(auth.RoleAdmin))
	backup.RegisterRoutes(api.Group("/backups", jwtMiddleware), backup.NewService(s.DB, s.Cfg.BackupDir), auth.RequireRole(auth.RoleAdmin))

	stream.RegisterRoutes(s.App.Group("/ws", jwtMiddleware), s.Stream, tripSvc)
}
