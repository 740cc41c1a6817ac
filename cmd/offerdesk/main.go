package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/offerdeskhq/offerdesk/internal/config"
	"github.com/offerdeskhq/offerdesk/internal/httpapi"
	"github.com/offerdeskhq/offerdesk/internal/intake"
	"github.com/offerdeskhq/offerdesk/internal/telemetry"
	"github.com/offerdeskhq/offerdesk/internal/tracker"
)

func main() {
	addrFlag := flag.String("addr", "", "listen address (overrides config and OFFERDESK_ADDR)")
	dbFlag := flag.String("db", "", "path to SQLite database file (overrides config and OFFERDESK_DB)")
	flag.Parse()

	cfg := config.Load()
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}
	if *dbFlag != "" {
		cfg.Database.Path = *dbFlag
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "offerdesk")
	if err != nil {
		log.Fatalf("telemetry setup: %v", err)
	}
	if shutdownTracing != nil {
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	var store tracker.Store
	if cfg.Database.Path != "" {
		ss, err := tracker.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			log.Fatalf("failed to initialize sqlite store (%s): %v", cfg.Database.Path, err)
		}
		store = ss
		log.Printf("using sqlite store at %s", cfg.Database.Path)
	} else {
		store = tracker.NewMemoryStore()
		log.Printf("using in-memory store, records will not survive restart")
	}
	defer store.Close()

	parser := buildParser(cfg)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: httpapi.NewServer(store, parser, cfg.Profile.HolderProfile()),
	}

	go func() {
		log.Printf("offerdesk listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// buildParser wires whatever providers have credentials. With none
// configured the server still runs; only the parse route degrades.
func buildParser(cfg config.Config) httpapi.OfferParser {
	var primary, secondary intake.Provider

	if cfg.Anthropic.APIKey != "" {
		p, err := intake.NewAnthropicProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
		if err != nil {
			log.Printf("anthropic provider disabled: %v", err)
		} else {
			primary = p
		}
	}
	if cfg.OpenAI.APIKey != "" {
		p, err := intake.NewOpenAICompatProvider(cfg.OpenAI.Endpoint, cfg.OpenAI.Model, cfg.OpenAI.APIKey)
		if err != nil {
			log.Printf("openai provider disabled: %v", err)
		} else {
			secondary = p
		}
	}

	if primary == nil && secondary == nil {
		log.Printf("no parsing provider configured, POST /v1/offers/parse will return 503")
		return nil
	}
	if primary == nil {
		primary, secondary = secondary, nil
	}
	return intake.NewParser(primary, secondary)
}
