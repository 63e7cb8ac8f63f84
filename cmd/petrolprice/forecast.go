package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rubiojr/petrolprice/internal/forecast"
	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/internal/search"
	"github.com/urfave/cli/v2"
)

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:      "forecast",
		Usage:     "Show next week's petrol price forecast for a suburb",
		ArgsUsage: "<suburb>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "How to find the forecast city: postcode or geocode",
				Value: string(forecast.StrategyPostcode),
			},
			pickFlag(),
		},
		Action: forecastAction,
	}
}

func forecastAction(c *cli.Context) error {
	suburb := strings.Join(c.Args().Slice(), " ")
	strategy, err := forecast.ParseStrategy(c.String("strategy"))
	if err != nil {
		return err
	}

	logger := newLogger(c)
	backend := newAPI(c)
	out := c.App.Writer

	res, err := search.NewResolver(backend, logger).ResolveSuburb(c.Context, suburb)
	if err != nil {
		return errors.New(search.UserMessage(err))
	}
	if res.Empty() {
		fmt.Fprintln(out, search.NoMatchMessage(res.Query))
		return nil
	}

	cand, err := chooseCandidate(c, res)
	if err != nil {
		return err
	}

	var geocoder geo.Geocoder
	if strategy == forecast.StrategyGeocode {
		geocoder = newGeocoder(c, logger)
	}
	svc := forecast.NewService(forecast.NewResolver(strategy, geocoder, logger), backend, logger)

	result, err := svc.ForCandidate(c.Context, cand)
	if err != nil {
		return errors.New(forecast.UserMessage(err))
	}

	fmt.Fprintf(out, "Forecast for %s (%s)\n", cand, result.City)
	fmt.Fprintf(out, "Graph: %s%s\n\n", backend.BaseURL(), result.SVGPath)
	if result.Text == "" {
		fmt.Fprintln(out, result.Notice)
		return nil
	}
	fmt.Fprintln(out, strings.TrimSpace(result.Text))
	if result.CreatedAt != "" {
		fmt.Fprintf(out, "\nGenerated: %s\n", result.CreatedAt)
	}
	return nil
}
