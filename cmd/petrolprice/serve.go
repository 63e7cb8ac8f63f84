package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/rubiojr/petrolprice/internal/forecast"
	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/internal/searchlog"
	"github.com/rubiojr/petrolprice/internal/web"
	"github.com/urfave/cli/v2"
)

const (
	pruneInterval   = time.Hour
	searchRetention = 7 * 24 * time.Hour
	shutdownTimeout = 5 * time.Second
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web client",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP server port",
				EnvVars: []string{"PETROLPRICE_PORT"},
				Value:   8080,
			},
			&cli.StringFlag{
				Name:    "listen",
				Usage:   "Address to listen on",
				EnvVars: []string{"PETROLPRICE_LISTEN"},
				Value:   "127.0.0.1",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "How to find the forecast city: postcode or geocode",
				Value: string(forecast.StrategyPostcode),
			},
			&cli.StringFlag{
				Name:  "graph-url",
				Usage: "Where forecast graphs are served from (defaults to --api-url)",
			},
			&cli.IntFlag{
				Name:  "rate-limit",
				Usage: "Requests per minute allowed per IP",
				Value: web.DefaultRateLimit,
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	strategy, err := forecast.ParseStrategy(c.String("strategy"))
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := httplog.NewLogger("petrolprice", httplog.Options{
		JSON:            false,
		LogLevel:        level,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	store, err := searchlog.New(ctx, logger.Logger)
	if err != nil {
		return fmt.Errorf("error initializing search log: %w", err)
	}
	defer store.Close()

	var geocoder geo.Geocoder
	if strategy == forecast.StrategyGeocode {
		geocoder = newGeocoder(c, logger.Logger)
	}

	srv, err := web.NewServer(web.Config{
		API:       newAPI(c),
		Geocoder:  geocoder,
		Strategy:  strategy,
		SearchLog: store,
		GraphURL:  c.String("graph-url"),
		RateLimit: c.Int("rate-limit"),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := store.Prune(ctx, searchRetention); err != nil {
					logger.Error("Error pruning search log", "error", err)
				}
			}
		}
	}()

	addr := fmt.Sprintf("%s:%d", c.String("listen"), c.Int("port"))
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigChan:
		case <-ctx.Done():
			return
		}

		logger.Info("Shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", "error", err)
		}
	}()

	logger.Info("Starting server", "addr", addr, "api", c.String("api-url"), "strategy", strategy)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("error running server: %w", err)
	}
	return nil
}
