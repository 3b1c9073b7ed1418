package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lightscene/internal/backend"
	"github.com/coreman2200/lightscene/internal/config"
	_ "github.com/coreman2200/lightscene/internal/effects"
	"github.com/coreman2200/lightscene/internal/providers/hue"
	"github.com/coreman2200/lightscene/internal/providers/preview"
	"github.com/coreman2200/lightscene/internal/providers/strip"
	"github.com/coreman2200/lightscene/internal/store"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		storePath  = flag.String("store", "lightscene.yaml", "path to the settings store")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	var cfg *config.Config
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = c
	}

	eAddr := *addr
	eStore := *storePath
	if cfg != nil {
		if cfg.Addr != "" {
			eAddr = cfg.Addr
		}
		if cfg.StorePath != "" {
			eStore = cfg.StorePath
		}
	}

	// ---- Backend + providers ----
	b := backend.New(log.Logger)

	var bridge hue.Bridge
	if cfg != nil && cfg.Hue.Host != "" {
		bridge = hue.NewHTTPBridge(cfg.Hue.Host, cfg.Hue.Username)
	}
	hueProvider := hue.New(bridge, log.Logger)
	stripProvider := strip.New(log.Logger)
	previewProvider := preview.New(log.Logger)

	b.RegisterProvider(hueProvider)
	b.RegisterProvider(stripProvider)
	b.RegisterProvider(previewProvider)

	if cfg != nil {
		for _, s := range cfg.Strips {
			stripProvider.AddStrip(s.Port, s.Count)
		}
		for _, p := range cfg.Panels {
			previewProvider.AddPanel(p.W, p.H)
		}
	}

	// ---- Restore persisted scenes ----
	if root, err := store.Load(eStore); err != nil {
		log.Warn().Err(err).Str("path", eStore).Msg("settings load failed; starting empty")
	} else {
		b.Load(root)
	}

	// ---- HTTP routes ----
	start := time.Now()
	mux := http.NewServeMux()
	mux.HandleFunc("/preview", previewProvider.HandleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"running":      b.IsRunning(),
			"uptime_s":     time.Since(start).Seconds(),
			"scenes":       len(b.Scenes()),
			"active_scene": b.ActiveScene(),
		})
	})

	srv := &http.Server{
		Addr:         eAddr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run scheduler & server ----
	b.Start()
	go func() {
		log.Info().Str("addr", eAddr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	_ = srv.Close()
	b.Stop()

	root := store.NewNode()
	b.Save(root)
	if err := store.Save(eStore, root); err != nil {
		log.Error().Err(err).Str("path", eStore).Msg("settings save failed")
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
