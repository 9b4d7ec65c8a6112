package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/campushub/portal-backend/api/routes"
	"github.com/campushub/portal-backend/internal/announcements"
	"github.com/campushub/portal-backend/internal/assessments"
	"github.com/campushub/portal-backend/internal/assignments"
	"github.com/campushub/portal-backend/internal/attendance"
	"github.com/campushub/portal-backend/internal/auth"
	"github.com/campushub/portal-backend/internal/courses"
	"github.com/campushub/portal-backend/internal/enrollments"
	"github.com/campushub/portal-backend/internal/marks"
	"github.com/campushub/portal-backend/internal/messages"
	"github.com/campushub/portal-backend/internal/notifications"
	"github.com/campushub/portal-backend/internal/notify"
	"github.com/campushub/portal-backend/internal/realtime"
	"github.com/campushub/portal-backend/internal/users"
	"github.com/campushub/portal-backend/pkg/auth/session"
	"github.com/campushub/portal-backend/pkg/config"
	"github.com/campushub/portal-backend/pkg/db"
	"github.com/campushub/portal-backend/pkg/logger"
	"github.com/campushub/portal-backend/pkg/metrics"
	"github.com/campushub/portal-backend/pkg/migrate"
	"github.com/campushub/portal-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dispatchMetrics := metrics.NewDispatchMetrics(registry)

	hub := realtime.NewHub(logg, dispatchMetrics)
	realtimeServer := realtime.NewServer(hub, cfg.JWT, cfg.Realtime, sessionManager, logg)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	coursesRepo := courses.NewRepository(gormDB)
	enrollmentsRepo := enrollments.NewRepository(gormDB)

	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	dispatcher, err := notify.NewDispatcher(notificationsService, hub, logg, dispatchMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create event dispatcher", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	coursesService, err := courses.NewService(coursesRepo, dispatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create courses service", err)
		os.Exit(1)
	}

	enrollmentsService, err := enrollments.NewService(enrollments.ServiceParams{
		Repo:       enrollmentsRepo,
		Courses:    coursesRepo,
		Users:      usersRepo,
		Dispatcher: dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create enrollments service", err)
		os.Exit(1)
	}

	assignmentsService, err := assignments.NewService(assignments.ServiceParams{
		Repo:        assignments.NewRepository(gormDB),
		Courses:     coursesRepo,
		Users:       usersRepo,
		Enrollments: enrollmentsRepo,
		Dispatcher:  dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create assignments service", err)
		os.Exit(1)
	}

	assessmentsService, err := assessments.NewService(assessments.ServiceParams{
		Repo:        assessments.NewRepository(gormDB),
		Courses:     coursesRepo,
		Users:       usersRepo,
		Enrollments: enrollmentsRepo,
		Dispatcher:  dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create assessments service", err)
		os.Exit(1)
	}

	attendanceService, err := attendance.NewService(attendance.NewRepository(gormDB), dispatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create attendance service", err)
		os.Exit(1)
	}

	marksService, err := marks.NewService(marks.ServiceParams{
		Repo:       marks.NewRepository(gormDB),
		Courses:    coursesRepo,
		Dispatcher: dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create marks service", err)
		os.Exit(1)
	}

	messagesService, err := messages.NewService(messages.ServiceParams{
		Repo:       messages.NewRepository(gormDB),
		Users:      usersRepo,
		Dispatcher: dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create messages service", err)
		os.Exit(1)
	}

	announcementsService, err := announcements.NewService(usersRepo, dispatcher)
	if err != nil {
		logg.Error(context.Background(), "failed to create announcements service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, realtimeServer, registry, routes.Services{
		Auth:          authService,
		Notifications: notificationsService,
		Courses:       coursesService,
		Enrollments:   enrollmentsService,
		Assignments:   assignmentsService,
		Assessments:   assessmentsService,
		Attendance:    attendanceService,
		Marks:         marksService,
		Messages:      messagesService,
		Announcements: announcementsService,
		Badges:        dispatcher,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
