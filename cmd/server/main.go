// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/childoftherion/ludomercatus-sub000/internal/auth"
	"github.com/childoftherion/ludomercatus-sub000/internal/cache"
	"github.com/childoftherion/ludomercatus-sub000/internal/database"
	"github.com/childoftherion/ludomercatus-sub000/internal/handlers"
	"github.com/childoftherion/ludomercatus-sub000/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	if os.Getenv("DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Persistence and the audit queue are optional; the server runs fully
	// in memory without them.
	if os.Getenv("PG_HOST") != "" {
		database.ConnectDB()
	}
	if os.Getenv("REDIS_ADDR") != "" {
		if err := cache.ConnectRedis(); err != nil {
			logger.Warnf("redis unavailable, action audit disabled: %v", err)
		}
	}

	srv := handlers.NewServer(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Rooms.RunSweeper(ctx, time.Minute, logger)

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)
	mux.HandleFunc("/user/claim", handlers.ClaimEphemeralHandler)

	// room endpoints
	mux.Handle("/room/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateRoomHandler(srv),
	)))
	mux.Handle("/room/list", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListRoomsHandler(srv),
	)))

	// room websocket
	mux.Handle("/room/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
