package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"lashstudio/internal/config"
	"lashstudio/internal/database"
	"lashstudio/internal/domain"
	"lashstudio/internal/middleware"
	"lashstudio/internal/modules/availability"
	"lashstudio/internal/modules/booking"
	"lashstudio/internal/modules/catalog"
	"lashstudio/internal/modules/payment"
	"lashstudio/internal/modules/schedule"
	"lashstudio/internal/notification"
	"lashstudio/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("level=fatal msg=config load failed err=%v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal msg=database connect failed err=%v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("level=fatal msg=migration failed err=%v", err)
	}

	serviceRepo := repository.NewServiceRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	applySettingOverrides(cfg, settingsRepo)

	notifier := notification.NewSender(cfg.BotToken, cfg.AdminTgID)
	gateway := payment.NewGateway(cfg.YooKassaShopID, cfg.YooKassaSecretKey, cfg.WebappURL)
	if !gateway.Enabled() {
		log.Printf("level=warn msg=payment gateway not configured, bookings confirm immediately")
	}

	catalogHandler := catalog.NewHandler(catalog.NewService(serviceRepo))
	availabilityHandler := availability.NewHandler(availability.NewService(slotRepo, serviceRepo, cfg.TightWindowDays))
	scheduleHandler := schedule.NewHandler(schedule.NewService(slotRepo))
	bookingService := booking.NewService(bookingRepo, serviceRepo, gateway, notifier, cfg.RefundLeadTime)
	bookingHandler := booking.NewHandler(bookingService, cfg.AdminTgID)
	paymentService := payment.NewService(bookingRepo, serviceRepo, notifier, cfg.PendingTimeout)
	paymentHandler := payment.NewHandler(paymentService)

	worker := payment.NewWorker(paymentService, cfg.SweepInterval)
	if err := worker.Start(); err != nil {
		log.Fatalf("level=fatal msg=worker start failed err=%v", err)
	}
	defer worker.Stop()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS(cfg.WebappURL))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// public
		catalogHandler.RegisterRoutes(api)
		availabilityHandler.RegisterRoutes(api)
		paymentHandler.RegisterRoutes(api)

		// telegram mini-app clients
		client := api.Group("/")
		client.Use(middleware.TelegramAuth(cfg.BotToken, cfg.AuthMaxAge))
		{
			bookingHandler.RegisterRoutes(client)
		}

		// provider
		admin := api.Group("/admin")
		admin.Use(middleware.TelegramAuth(cfg.BotToken, cfg.AuthMaxAge), middleware.AdminOnly(cfg.AdminTgID))
		{
			catalogHandler.RegisterAdminRoutes(admin)
			scheduleHandler.RegisterAdminRoutes(admin)
			bookingHandler.RegisterAdminRoutes(admin)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("level=info msg=listening addr=%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("level=fatal msg=server failed err=%v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("level=info msg=shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("level=error msg=shutdown err=%v", err)
	}
}

// applySettingOverrides lets stored settings override the env-derived
// thresholds, so the provider can tune them without a redeploy.
func applySettingOverrides(cfg *config.Config, settings *repository.SettingsRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if v, ok := settingInt(ctx, settings, domain.SettingTightWindowDays); ok {
		cfg.TightWindowDays = v
	}
	if v, ok := settingInt(ctx, settings, domain.SettingRefundThresholdHrs); ok {
		cfg.RefundLeadTime = time.Duration(v) * time.Hour
	}
	if v, ok := settingInt(ctx, settings, domain.SettingPendingTimeoutMins); ok && v > 0 {
		cfg.PendingTimeout = time.Duration(v) * time.Minute
	}
}

func settingInt(ctx context.Context, settings *repository.SettingsRepository, key string) (int, bool) {
	raw, found, err := settings.Get(ctx, key)
	if err != nil || !found {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("level=warn msg=ignoring malformed setting key=%s value=%q", key, raw)
		return 0, false
	}
	return n, true
}
