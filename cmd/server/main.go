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
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	commonClock "github.com/mfournier/cubetag/internal/common/clock"
	commonUUID "github.com/mfournier/cubetag/internal/common/uuid"
	"github.com/mfournier/cubetag/internal/handlers/ws"
	"github.com/mfournier/cubetag/internal/moderation"
	"github.com/mfournier/cubetag/internal/repositories/account"
	"github.com/mfournier/cubetag/internal/services/arena"
	"github.com/mfournier/cubetag/internal/services/backdrop"
	progressionService "github.com/mfournier/cubetag/internal/services/progression"
)

func main() {
	// Load .env if present; real deployments use actual env vars
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	accountRepo, err := account.NewRedis(&account.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create account repository: %v", err)
	}

	clk := &commonClock.DefaultClock{}

	// Initialize progression service
	progressionSvc, err := progressionService.New(&progressionService.Config{
		AccountRepo: accountRepo,
		Clock:       clk,
	})
	if err != nil {
		log.Fatalf("Failed to create progression service: %v", err)
	}

	// The hub is the broadcaster every service fans out through
	hub := ws.NewHub()

	// Initialize arena service
	arenaSvc, err := arena.New(&arena.Config{
		Progression: progressionSvc,
		Broadcaster: hub,
		Clock:       clk,
	})
	if err != nil {
		log.Fatalf("Failed to create arena service: %v", err)
	}

	// Moderation is optional; without it background uploads fail closed
	var moderationClient moderation.Client
	if endpoint := getEnv("MODERATION_ENDPOINT", ""); endpoint != "" {
		apiKey := getEnv("MODERATION_API_KEY", "")
		if apiKey == "" {
			log.Fatal("MODERATION_API_KEY is required when MODERATION_ENDPOINT is set")
		}
		moderationClient, err = moderation.NewHTTP(&moderation.Config{
			Endpoint: endpoint,
			APIKey:   apiKey,
		})
		if err != nil {
			log.Fatalf("Failed to create moderation client: %v", err)
		}
	} else {
		log.Println("MODERATION_ENDPOINT not set, background uploads disabled")
	}

	// Initialize backdrop service
	backdropSvc, err := backdrop.New(&backdrop.Config{
		Moderation:  moderationClient,
		Progression: progressionSvc,
		Broadcaster: hub,
		Clock:       clk,
	})
	if err != nil {
		log.Fatalf("Failed to create backdrop service: %v", err)
	}

	// Initialize websocket handler
	wsHandler, err := ws.New(&ws.Config{
		Hub:         hub,
		Arena:       arenaSvc,
		Backdrop:    backdropSvc,
		Progression: progressionSvc,
		UUID:        commonUUID.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create websocket handler: %v", err)
	}

	// Background tasks: AFK sweep and stat flush
	runCtx, stopRun := context.WithCancel(context.Background())
	go arenaSvc.Run(runCtx)

	router := mux.NewRouter()
	router.Handle("/ws", wsHandler)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(getEnv("STATIC_DIR", "./public"))))

	server := &http.Server{
		Addr:    getEnv("LISTEN_ADDR", ":3000"),
		Handler: router,
	}

	go func() {
		log.Printf("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Stop background tasks first so the final stat flush runs
	stopRun()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	log.Println("Server has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
