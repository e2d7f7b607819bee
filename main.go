package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-frontdesk/config"
	"hotel-frontdesk/controllers"
	"hotel-frontdesk/frontdesk"
	"hotel-frontdesk/jobs"
	"hotel-frontdesk/models"
	"hotel-frontdesk/routes"
	"hotel-frontdesk/services"
)

func newAuthorizer(cfg config.Config) (*services.CodeAuthorizer, error) {
	if cfg.AdminCodeHash != "" && cfg.StaffCodeHash != "" {
		return services.NewCodeAuthorizer(cfg.AdminCodeHash, cfg.StaffCodeHash)
	}
	if cfg.AdminCode == "" || cfg.StaffCode == "" {
		return nil, errors.New("set both ADMIN_CODE_HASH and STAFF_CODE_HASH, or both ADMIN_CODE and STAFF_CODE")
	}
	return services.NewCodeAuthorizerFromCodes(cfg.AdminCode, cfg.StaffCode, bcrypt.DefaultCost)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	auth, err := newAuthorizer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("authorization codes")
	}

	var (
		db    *gorm.DB
		store services.Store
	)
	if cfg.StoreDriver == config.StoreMySQL {
		db, err = config.ConnectDatabase(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("database connect failed")
		}
		store = services.NewGormStore(db)
		log.Info().Msg("database connected, rooms and guest history will be persisted")
	} else {
		log.Warn().Msg("STORE_DRIVER=memory: rooms and guest history are lost on restart")
	}

	var seed []models.Room
	if cfg.SeedRooms {
		seed = config.DefaultRooms()
	}
	clock := func() time.Time { return time.Now().In(cfg.Location) }

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	state, err := services.LoadState(ctx, store, seed)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("loading rooms and guest history")
	}

	board := melody.New()
	notifiers := []services.Notifier{services.NewBoardHub(board)}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = config.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		notifiers = append(notifiers, services.NewRedisNotifier(rdb))
		log.Info().Str("channel", services.EventsChannel).Msg("publishing board events to redis")
	}

	fd := services.NewFrontDeskService(state, services.Options{
		Policy:     frontdesk.Policy{CutoffHour: cfg.CutoffHour, WeekStart: cfg.WeekStart},
		Store:      store,
		Notifiers:  notifiers,
		Authorizer: auth,
		Clock:      clock,
	})
	log.Info().Int("rooms", state.RoomCount()).Int("ledger", len(state.Ledger())).Msg("front desk ready")

	scheduler := cron.New(cron.WithLocation(cfg.Location))
	if err := jobs.InitCronJobs(scheduler, fd, cfg.CutoffHour); err != nil {
		log.Fatal().Err(err).Msg("cron jobs")
	}

	router := routes.SetupRouter(routes.Controllers{
		Rooms:        controllers.NewRoomController(fd),
		GuestHistory: controllers.NewGuestHistoryController(fd),
		Dashboard:    controllers.NewDashboardController(fd),
		Settings:     controllers.NewSettingsController(fd),
		Health:       controllers.Health(db, rdb),
	}, board, cfg.CorsOrigins)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Warn().Msg("shutdown signal received, shutting down server")

	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := board.Close(); err != nil {
		log.Warn().Err(err).Msg("closing websocket board")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	log.Info().Msg("server stopped gracefully")
}
