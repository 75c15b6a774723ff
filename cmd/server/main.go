package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/boardforge/taskboard/internal/config"
	"github.com/boardforge/taskboard/internal/es"
	"github.com/boardforge/taskboard/internal/events"
	"github.com/boardforge/taskboard/internal/handlers"
	"github.com/boardforge/taskboard/internal/httpserver"
	"github.com/boardforge/taskboard/internal/logging"
	"github.com/boardforge/taskboard/internal/middleware/authgate"
	"github.com/boardforge/taskboard/internal/repo"
	"github.com/boardforge/taskboard/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch unavailable, board search disabled", "error", err)
			esClient = nil
		}
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	users := &repo.UserRepo{DB: db}
	boards := &repo.BoardRepo{DB: db}

	authSvc := &service.AuthService{
		Users:         users,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
	}
	userSvc := &service.UserService{Users: users}

	e := httpserver.New(&httpserver.Deps{
		Gate: &authgate.Gate{
			Users:         users,
			JWTSecret:     cfg.JWTSecret,
			RefreshSecret: cfg.RefreshSecret,
		},
		Auth:   &handlers.AuthHandler{Auth: authSvc, Producer: producer},
		User:   &handlers.UserHandler{Users: userSvc, Producer: producer},
		Board:  &handlers.BoardHandler{Boards: boards, Users: users, Producer: producer, ES: esClient, ESIndex: cfg.ESIndex},
		Logger: logger,
	})

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
