package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"passgate-backend/internal/attendance"
	"passgate-backend/internal/events"
	"passgate-backend/internal/platform/auth"
	"passgate-backend/internal/platform/config"
	"passgate-backend/internal/platform/store"
	"passgate-backend/internal/qrcodec"
	"passgate-backend/internal/scan"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		panic(err)
	}
	log.Printf("[INFO] mode:%s", cfg.Mode)

	codec, err := qrcodec.New(cfg.QR.Key)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := store.Connect(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		panic(err)
	}
	defer st.Close(context.Background())
	log.Printf("[INFO] connected to store: %s", cfg.Mongo.Database)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowCredentials: false,
		}))
	}

	// Liveness + store availability
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if err := st.Ping(c.Request.Context()); err != nil {
			dbStatus = "unavailable"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  dbStatus,
		})
	})

	cache := scan.NewDuplicateCache()
	attSvc := attendance.NewService(attendance.NewMongoStore(st))
	scanSvc := scan.NewService(scan.NewMongoRepository(st), cache, codec, attSvc)
	authSvc := auth.NewService(auth.NewStore(st), cfg.Auth.Secret, cfg.Auth.TokenTTL.Std())

	// /api
	api := r.Group("/api")
	auth.RegisterRoutes(api, authSvc)
	scan.RegisterRoutes(api, scanSvc)
	events.RegisterRoutes(api, events.NewService(cfg.Events))

	// Organizer-facing listing, token required.
	protected := api.Group("")
	protected.Use(auth.RequireAuth(authSvc.Secret()))
	attendance.RegisterRoutes(protected, attSvc)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
