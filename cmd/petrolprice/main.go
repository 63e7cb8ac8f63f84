package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/pkg/api"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "petrolprice",
		Usage: "Find nearby petrol prices and price forecasts for Australian suburbs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Petrol price backend URL",
				EnvVars: []string{"PETROLPRICE_API_URL"},
				Value:   api.DefaultBaseURL,
			},
			&cli.StringFlag{
				Name:    "nominatim-url",
				Usage:   "Nominatim server used by the geocode forecast strategy",
				EnvVars: []string{"PETROLPRICE_NOMINATIM_URL"},
				Value:   geo.DefaultServer,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Backend request timeout",
				Value: api.DefaultTimeout,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Log debug output to stderr",
				EnvVars: []string{"PETROLPRICE_DEBUG"},
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			forecastCommand(),
			brandsCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	if c.Bool("debug") {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.DiscardHandler)
}

func newAPI(c *cli.Context) *api.PetrolAPI {
	return api.NewPetrolAPI(
		api.WithBaseURL(c.String("api-url")),
		api.WithTimeout(c.Duration("timeout")),
	)
}

func newGeocoder(c *cli.Context, logger *slog.Logger) geo.Geocoder {
	return geo.NewNominatim(c.String("nominatim-url"), logger)
}
