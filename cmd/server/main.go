package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/odontolegal/forensic-api/internal/config"
	"github.com/odontolegal/forensic-api/internal/database"
	"github.com/odontolegal/forensic-api/internal/handler"
	"github.com/odontolegal/forensic-api/internal/middleware"
	"github.com/odontolegal/forensic-api/internal/queue"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/router"
	"github.com/odontolegal/forensic-api/internal/service"
	"github.com/odontolegal/forensic-api/internal/utils"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	cases := repository.NewCaseRepo(db)
	evidence := repository.NewEvidenceRepo(db)
	records := repository.NewDentalRecordRepo(db)
	reports := repository.NewReportRepo(db)

	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	if _, err := service.EnsureAdmin(ctx, users, hasher, cfg.BootstrapAdminName, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	qcfg := config.LoadQueueConfig()
	pub := service.NewPublisher(qcfg)
	if qcfg.Enabled {
		go func() {
			if err := queue.StartAuditConsumer(ctx, qcfg); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("audit-consumer stopped: %v", err)
			}
		}()
	}

	// Redis backs the login limiter and the stats cache; both pass through
	// when it is unavailable.
	rdb := config.NewRedisClient()
	extras := router.Extras{}
	if rdb != nil {
		defer rdb.Close()
		extras.LoginLimiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
		extras.StatsCache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	router.RegisterRoutes(e, router.Handlers{
		Users:    handler.NewUserHandler(users, hasher, tokens, pub),
		Cases:    handler.NewCaseHandler(cases, pub),
		Evidence: handler.NewEvidenceHandler(evidence, pub),
		Records:  handler.NewDentalRecordHandler(records, pub),
		Reports:  handler.NewReportHandler(reports, users, evidence, pub),
		Stats:    handler.NewStatsHandler(records),
	}, tokens, extras)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
