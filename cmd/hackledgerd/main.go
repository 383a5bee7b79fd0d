// Command hackledgerd serves the hackathon ledger over HTTP.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"hackledger/internal/core"
	ledgermem "hackledger/internal/infra/ledger/memory"
	"hackledger/internal/infra/media"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenPersistentStore(engine)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	mediaStore, err := media.Open(ctx)
	if err != nil {
		log.Fatalf("open media store: %v", err)
	}

	metrics, err := core.NewPrometheusMetricsRecorder(nil)
	if err != nil {
		log.Fatalf("register metrics: %v", err)
	}

	svc := core.NewService(store, ledgermem.New(),
		core.WithLogger(logger),
		core.WithMetricsRecorder(metrics),
	)

	srv := &server{svc: svc, media: mediaStore, logger: logger}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv.routes(mux)

	corsMiddleware := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", callerHeader},
	})

	addr := os.Getenv("HACKLEDGER_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Info("hackledger API listening", "addr", addr)
	if err := http.ListenAndServe(addr, corsMiddleware.Handler(mux)); err != nil {
		log.Fatalf("listener failed: %v", err)
	}
}
