package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"rentdesk/internal/common"
	"rentdesk/internal/config"
	"rentdesk/internal/dbmysql"
	"rentdesk/internal/di"
)

func main() {
	log.Println("Starting RentDesk API...")

	cfg := config.LoadConfig()

	app, cleanup, err := di.InitializeAPI(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer cleanup()

	if err := dbmysql.Migrate(app.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("✅ Database migration completed")

	router := mux.NewRouter()
	router.Use(common.LoggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	// marketplace and the invite flow work without a token
	public := router.PathPrefix("/api/v1").Subrouter()
	app.LeasingHandler.PublicRoutes(public)

	authed := router.PathPrefix("/api/v1").Subrouter()
	authed.Use(common.AuthMiddleware)
	app.ChatHandler.Routes(authed)
	app.PortfolioHandler.Routes(authed)
	app.LeasingHandler.Routes(authed)
	app.BillingHandler.Routes(authed)
	app.NotifyHandler.Routes(authed)

	server := &http.Server{
		Addr:         ":" + cfg.Server.APIPort,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("✅ API listening on port %s", cfg.Server.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down API...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("API stopped")
}
