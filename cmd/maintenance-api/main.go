package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/maintenance-api/internal/config"
	"github.com/dimitrije/maintenance-api/internal/database"
	"github.com/dimitrije/maintenance-api/internal/handlers"
	"github.com/dimitrije/maintenance-api/internal/lifecycle"
	"github.com/dimitrije/maintenance-api/internal/logger"
	authmw "github.com/dimitrije/maintenance-api/internal/middleware"
	"github.com/dimitrije/maintenance-api/internal/notify"
	"github.com/dimitrije/maintenance-api/internal/services"
	"github.com/dimitrije/maintenance-api/internal/sse"
	"github.com/go-redis/redis/v8"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.ServiceName)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	hub := sse.NewHub()
	go hub.Run()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	userService := services.NewUserService(db)
	emailService := services.NewEmailService(cfg.SMTP)
	mailer := notify.NewEmailHandler(userService, emailService, cfg.BaseURL)

	eventHandlers := []notify.Handler{hub}
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}

		eventHandlers = append(eventHandlers, notify.NewStreamPublisher(rdb, cfg.Notify.Stream))

		if emailService.IsConfigured() {
			consumer := notify.NewConsumer(rdb, cfg.Notify.Stream, cfg.Notify.Group, cfg.Notify.Consumer, mailer, zlog.Named("consumer"))
			go func() {
				if err := consumer.Run(ctx); err != nil {
					zlog.Error("notification consumer stopped", zap.Error(err))
				}
			}()
		}
	} else if emailService.IsConfigured() {
		eventHandlers = append(eventHandlers, mailer)
	}

	queue := notify.NewQueue(cfg.Notify.QueueSize, cfg.Notify.HandlerTimeout, zlog.Named("notify"), eventHandlers...)
	queueDone := make(chan struct{})
	go func() {
		queue.Run(ctx)
		close(queueDone)
	}()

	machine := lifecycle.NewMachine(nil)
	requestService := services.NewRequestService(db, machine, queue, zlog.Named("requests"))
	equipmentService := services.NewEquipmentService(db, machine, queue, zlog.Named("equipment"))
	teamService := services.NewTeamService(db)

	requestHandler := handlers.NewRequestHandler(requestService, zlog)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService, zlog)
	teamHandler := handlers.NewTeamHandler(teamService, zlog)
	userHandler := handlers.NewUserHandler(userService, zlog)
	sseHandler := handlers.NewSSEHandler(hub, equipmentService, zlog)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/users/me", userHandler.GetMe)
	protected.Get("/users/technicians", userHandler.ListTechnicians)

	protected.Get("/requests", requestHandler.List)
	protected.Post("/requests", requestHandler.Create)
	protected.Get("/requests/:id", requestHandler.Get)
	protected.Patch("/requests/:id", requestHandler.Update)
	protected.Delete("/requests/:id", requestHandler.Delete)
	protected.Post("/requests/:id/stage", requestHandler.Transition)
	protected.Post("/requests/:id/assign", requestHandler.Assign)
	protected.Post("/requests/:id/self-assign", requestHandler.SelfAssign)
	protected.Put("/requests/:id/schedule", requestHandler.UpdateSchedule)

	protected.Get("/equipment", equipmentHandler.List)
	protected.Post("/equipment", equipmentHandler.Create)
	protected.Get("/equipment/:id", equipmentHandler.Get)
	protected.Put("/equipment/:id/status", equipmentHandler.UpdateStatus)
	protected.Put("/equipment/:id/health", equipmentHandler.UpdateHealth)

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/:teamId", teamHandler.Get)
	protected.Get("/teams/:teamId/members", teamHandler.GetMembers)
	protected.Post("/teams/:teamId/members", teamHandler.AddMember)
	protected.Delete("/teams/:teamId/members/:userId", teamHandler.RemoveMember)

	protected.Get("/events", sseHandler.Connect)
	protected.Post("/events/:clientId/equipment/:equipmentId", sseHandler.Watch)
	protected.Delete("/events/:clientId/equipment/:equipmentId", sseHandler.Unwatch)

	api.Get("/health", func(c *drift.Context) {
		if err := db.Pool.Ping(c.Request.Context()); err != nil {
			_ = c.JSON(503, map[string]string{"status": "unavailable"})
			return
		}
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		zlog.Info("server starting", zap.String("addr", addr))
		if err := app.Run(addr); err != nil {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	cancel()

	select {
	case <-queueDone:
	case <-time.After(10 * time.Second):
		zlog.Warn("notification queue did not drain in time")
	}
}
