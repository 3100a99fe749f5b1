package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RAFagb11/synked-sub001/internal/app"
	"github.com/RAFagb11/synked-sub001/internal/config"
	"github.com/RAFagb11/synked-sub001/internal/database"
	apphttp "github.com/RAFagb11/synked-sub001/internal/http"
	"github.com/RAFagb11/synked-sub001/internal/http/handlers"
	"github.com/RAFagb11/synked-sub001/internal/http/metrics"
	httpmw "github.com/RAFagb11/synked-sub001/internal/http/middleware"
	"github.com/RAFagb11/synked-sub001/internal/observability"
	"github.com/RAFagb11/synked-sub001/internal/repository/docstore"
	"github.com/RAFagb11/synked-sub001/internal/store"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()

	var backend store.Store
	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		backend = store.NewRedis(client, nil)
		limiter = httpmw.NewRedisLimiter(client, "ratelimit")
	case config.BackendPostgres:
		db := database.NewPostgres(database.PostgresConfig{
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdle:     cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		})
		defer db.Close()
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatal(err)
		}
		backend = pg
	}
	documents := store.NewRetrying(backend, cfg.StoreRetryAttempts, cfg.StoreRetryBase)

	projectRepo := docstore.NewProjectRepository(documents)
	applicationRepo := docstore.NewApplicationRepository(documents)
	notificationRepo := docstore.NewNotificationRepository(documents)
	profileRepo := docstore.NewProfileRepository(documents)

	notificationService := app.NewNotificationService(notificationRepo, logger)
	enrollmentService := app.NewEnrollmentService(projectRepo, applicationRepo, notificationService, logger)
	applicationService := app.NewApplicationService(applicationRepo, projectRepo, enrollmentService, notificationService, logger)
	projectService := app.NewProjectService(projectRepo, applicationRepo, enrollmentService, notificationService, logger)
	dashboardService := app.NewDashboardService(projectRepo, applicationRepo, profileRepo)
	reconciler := app.NewReconciler(enrollmentService, projectRepo, applicationRepo, cfg.ReconcileInterval, logger)

	reconcileCtx, stopReconciler := context.WithCancel(context.Background())
	defer stopReconciler()
	go reconciler.Run(reconcileCtx)

	collector := metrics.NewCollector()
	router := apphttp.NewRouter(apphttp.RouterDependencies{
		ProjectHandler:      handlers.NewProjectHandler(projectService, enrollmentService),
		ApplicationHandler:  handlers.NewApplicationHandler(applicationService, limiter),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
		DashboardHandler:    handlers.NewDashboardHandler(dashboardService),
		MetricsHandler:      handlers.NewMetricsHandler(collector),
		Identity:            httpmw.NewIdentity(),
		Metrics:             collector,
		Logger:              logger,
		RequestTimeout:      cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	stopReconciler()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
