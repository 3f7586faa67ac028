// @title           Basic CRUD API
// @version         1.0
// @description     Users and todos over GraphQL, with cookie-based JWT auth.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mpaternostro/basic-crud/internal/app"
	"github.com/mpaternostro/basic-crud/internal/config"

	_ "github.com/mpaternostro/basic-crud/docs"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// .env is optional; real deployments provide the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	log.Info("config loaded, connecting to database")

	application, err := app.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("app init")
	}
	log.Info("app ready, starting HTTP server")

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		log.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server shutdown")
	}

	if err := application.Close(ctx); err != nil {
		log.WithError(err).Fatal("app close")
	}
}
