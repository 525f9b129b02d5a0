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

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/config"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/database"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/kds"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/router"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/services"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.Log)
	kds.SetLogger(utils.InfoLogger)
	utils.SetJWTSecret(cfg.JWTSecret, cfg.TokenTTL)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Setup(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to prepare database: %v", err)
	}

	monitor := services.NewAlertMonitor(db)
	monitor.Interval = cfg.AlertInterval
	monitor.Start()
	defer monitor.Stop()

	scheduler := services.NewScheduler(db)
	if err := scheduler.Start(cfg.TokenSweep, cfg.ReportAt); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	r := router.SetupRouter(db, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		LoginBurst:  cfg.LoginBurst,
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.WithError(err).Warn("trusted proxies")
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		utils.InfoLogger.Printf("Listening on %s", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.WithError(err).Error("server shutdown")
	}
}
