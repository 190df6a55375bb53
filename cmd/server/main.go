package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"airwatch/internal/analytics"
	"airwatch/internal/cache"
	"airwatch/internal/config"
	"airwatch/internal/feed"
	"airwatch/internal/handlers"
	"airwatch/internal/poller"
	"airwatch/internal/schema"
)

func main() {
	configPath := flag.String("config", "", "path to config file (yaml)")
	flag.Parse()

	log.Println("Starting air quality dashboard...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Схема полей проверяется один раз при старте
	s := schema.Default()

	analyzer := analytics.NewAnalyzer(s, cfg.WindowSize, cfg.HistoryLimit)
	log.Printf("Analyzer configured with window size: %d, history limit: %d\n",
		cfg.WindowSize, cfg.HistoryLimit)

	client := feed.NewClient(cfg.FeedURL, cfg.FetchTimeout)

	var pollerOpts []poller.Option
	var handlerOpts []handlers.Option

	// Redis опционален: без адреса снимки не публикуются
	if cfg.RedisEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SnapshotTTL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		log.Println("Connected to Redis")

		pollerOpts = append(pollerOpts, poller.WithPublisher(redisCache))
		handlerOpts = append(handlerOpts, handlers.WithCache(redisCache))
	}

	p := poller.New(client, analyzer, s, cfg.RefreshInterval, cfg.FetchTimeout, pollerOpts...)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go p.Run(ctx)
	log.Printf("Polling %s every %s\n", client.URL(), cfg.RefreshInterval)

	// Настройка HTTP router
	handler := handlers.NewHandler(p, cfg.RefreshInterval, handlerOpts...)
	router := handlers.NewRouter(handler)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Content-Type"},
	})

	// HTTP сервер
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      c.Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server listening on port %s\n", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
