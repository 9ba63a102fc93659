package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"broker-demo-service/assets"
	"broker-demo-service/internal/adapters/clock"
	"broker-demo-service/internal/adapters/stream"
	"broker-demo-service/internal/api"
	"broker-demo-service/internal/scenario"
	"broker-demo-service/internal/services"
)

// main is the application composition root.
// It loads the demo scenario, wires the playback engine behind the API
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")
	scenarioPath := os.Getenv("SCENARIO_PATH")
	timeScale, err := getEnvFloat("TIME_SCALE", 1)
	if err != nil {
		log.Fatal(err)
	}
	autoStart := getEnv("AUTO_START", "false") == "true"

	scn, err := loadScenario(scenarioPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("scenario loaded name=%q shipments=%d", scn.Name, len(scn.Shipments))

	hub := stream.NewHub()
	engine, err := services.NewEngine(services.Config{
		Scenario:  scn,
		Clock:     clock.System{},
		Sink:      hub,
		TimeScale: timeScale,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go engine.Run(ctx)

	if autoStart {
		if err := engine.Start(); err != nil {
			log.Fatal(err)
		}
	}

	docs, err := assets.Docs()
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(engine, hub.Handler(), http.FileServer(http.FS(docs)))

	// Write timeout stays generous: /api/stream holds long-lived connections.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if strings.TrimSpace(path) == "" {
		return scenario.Default()
	}
	return scenario.Load(path)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, v)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, f)
	}
	return f, nil
}
