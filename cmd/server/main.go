package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	announcementhandler "confhub/internal/announcement/handler"
	announcementservice "confhub/internal/announcement/service"
	"confhub/internal/cache"
	"confhub/internal/conference"
	conferencehandler "confhub/internal/conference/handler"
	conferenceservice "confhub/internal/conference/service"
	featuredhandler "confhub/internal/featured/handler"
	featuredservice "confhub/internal/featured/service"
	"confhub/internal/notify"
	"confhub/internal/platform/config"
	"confhub/internal/platform/httpserver"
	"confhub/internal/platform/logger"
	"confhub/internal/platform/metrics"
	"confhub/internal/platform/middleware"
	platformredis "confhub/internal/platform/redis"
	"confhub/internal/profile"
	profilehandler "confhub/internal/profile/handler"
	profileservice "confhub/internal/profile/service"
	"confhub/internal/queue"
	registrationhandler "confhub/internal/registration/handler"
	registrationservice "confhub/internal/registration/service"
	"confhub/internal/session"
	sessionhandler "confhub/internal/session/handler"
	sessionservice "confhub/internal/session/service"
	"confhub/internal/store"
	transporthttp "confhub/internal/transport/http"
	wishlisthandler "confhub/internal/wishlist/handler"
	wishlistservice "confhub/internal/wishlist/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores and the transaction runner. An empty DSN selects the in-memory
	// implementations, which keeps local development self-contained.
	var (
		profiles profile.Store
		confs    conference.Store
		sessions session.Store
		txr      store.TxRunner
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		if err := runMigrations(db, cfg.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		profiles = profile.NewPostgres(db)
		confs = conference.NewPostgres(db)
		sessions = session.NewPostgres(db)
		txr = store.NewPostgresTxRunner(db, m.TxRetries.Inc)
		log.Info("using postgres store")
	} else {
		profiles = profile.NewInMemoryStore()
		confs = conference.NewInMemoryStore()
		sessions = session.NewInMemoryStore()
		txr = store.NewMemoryTxRunner()
		log.Info("using in-memory store")
	}

	// Derived-data cache: redis when configured, process-local otherwise.
	var derived cache.Cache
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		derived = cache.NewRedis(redisClient.Client)
		log.Info("using redis cache")
	} else {
		derived = cache.NewMemory()
		log.Info("using in-memory cache")
	}

	// Job queue: kafka when configured, buffered channel otherwise.
	var (
		enqueuer queue.Enqueuer
		consume  func(context.Context, map[string]queue.Handler) error
	)
	if cfg.KafkaBrokers != "" {
		kq, err := queue.NewKafkaQueue(ctx, cfg.KafkaBrokers)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kq.Close()
		enqueuer = kq
		consume = func(ctx context.Context, handlers map[string]queue.Handler) error {
			return kq.Consume(ctx, log, handlers)
		}
		log.Info("using kafka queue")
	} else {
		cq := queue.NewChannelQueue(128)
		enqueuer = cq
		consume = func(ctx context.Context, handlers map[string]queue.Handler) error {
			return cq.Consume(ctx, log, handlers)
		}
		log.Info("using channel queue")
	}

	profileSvc := profileservice.NewService(profiles)
	conferenceSvc := conferenceservice.NewService(confs, profiles, profileSvc, txr, enqueuer, log)
	sessionSvc := sessionservice.NewService(sessions, confs, enqueuer, log)
	registrationSvc := registrationservice.NewService(profiles, confs, txr, m, log)
	wishlistSvc := wishlistservice.NewService(profiles, sessions, confs, txr, m, log)
	featuredSvc := featuredservice.NewService(sessions, confs, derived, m, log)
	announcementSvc := announcementservice.NewService(confs, derived, m, log)

	featuredH := featuredhandler.New(featuredSvc, log)
	announcementH := announcementhandler.New(announcementSvc, log)

	router := transporthttp.NewRouter(transporthttp.Deps{
		Validator: middleware.NewJWTValidator(cfg.JWTSigningKey),
		Logger:    log,
		Public: []transporthttp.Registrar{
			featuredH,
			announcementH,
		},
		Authenticated: []transporthttp.Registrar{
			profilehandler.New(profileSvc, log),
			conferencehandler.New(conferenceSvc, log),
			sessionhandler.New(sessionSvc, log),
			registrationhandler.New(registrationSvc, log),
			wishlisthandler.New(wishlistSvc, log),
		},
		Internal: []transporthttp.InternalRegistrar{
			featuredH,
			announcementH,
		},
	})

	handlers := map[string]queue.Handler{
		queue.JobFeaturedSpeaker: func(ctx context.Context, job queue.Job) error {
			_, err := featuredSvc.Recompute(ctx, job.Params["conference_id"])
			return err
		},
		queue.JobConfirmationEmail: notify.JobHandler(&notify.LogSender{Logger: log}),
	}

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		err := consume(gctx, handlers)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := announcementSvc.StartScheduler(gctx, cfg.AnnouncementInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func runMigrations(db *sql.DB, dir string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return err
	}
	mig, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return err
	}
	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
