package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"todo-manager/backend/internal/cache"
	"todo-manager/backend/internal/config"
	"todo-manager/backend/internal/database"
	"todo-manager/backend/internal/routes"
	"todo-manager/backend/internal/weather"
)

func gracefulShutdown(apiServer *http.Server, closers []io.Closer, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// 処理中のリクエストには5秒の猶予を与える
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Printf("Error closing resource: %v", err)
		}
	}

	log.Println("Server exiting")
	done <- true
}

func main() {
	config.LoadENV()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := database.InitDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	closers := []io.Closer{db}

	weatherClient, weatherCache := newWeatherClient(cfg)
	if weatherCache != nil {
		closers = append(closers, weatherCache)
	}

	server := newServer(cfg, db, weatherClient)

	done := make(chan bool, 1)
	go gracefulShutdown(server, closers, done)

	log.Printf("Server listening on %s", server.Addr)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}

// newWeatherClient は REDIS_URL があればキャッシュ付きの天気クライアントを作ります。
// Redisに接続できなければキャッシュなしで続行します。
func newWeatherClient(cfg *config.Config) (*weather.Client, *cache.RedisCache) {
	if cfg.RedisURL == "" {
		return weather.NewClient(cfg.WeatherAPIURL), nil
	}
	redisCache, err := cache.NewRedisCache(context.Background(), cfg.RedisURL, "weather:")
	if err != nil {
		log.Printf("Redis is unavailable, weather cache disabled: %v", err)
		return weather.NewClient(cfg.WeatherAPIURL), nil
	}
	return weather.NewClient(cfg.WeatherAPIURL, weather.WithCache(redisCache)), redisCache
}

func newServer(cfg *config.Config, db *sql.DB, weatherClient *weather.Client) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      routes.SetupRouter(db, cfg, weatherClient),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
