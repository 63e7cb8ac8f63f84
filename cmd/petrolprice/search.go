package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rubiojr/petrolprice/internal/geo"
	"github.com/rubiojr/petrolprice/internal/petrol"
	"github.com/rubiojr/petrolprice/internal/search"
	"github.com/rubiojr/petrolprice/pkg/api"
	"github.com/urfave/cli/v2"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "List petrol stations near a suburb",
		ArgsUsage: "<suburb>",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:    "radius",
				Aliases: []string{"r"},
				Usage:   "Search radius in kilometers (1-50)",
				Value:   search.DefaultRadiusKm,
			},
			&cli.StringFlag{
				Name:    "order",
				Aliases: []string{"o"},
				Usage:   "Order by price or distance",
				Value:   string(petrol.OrderPrice),
			},
			&cli.StringSliceFlag{
				Name:    "brand",
				Aliases: []string{"b"},
				Usage:   "Only show these brands (repeatable, All and Others are accepted)",
			},
			&cli.StringFlag{
				Name:  "display",
				Usage: "simple or detailed",
				Value: "simple",
			},
			pickFlag(),
		},
		Action: searchAction,
	}
}

func searchAction(c *cli.Context) error {
	suburb := strings.Join(c.Args().Slice(), " ")

	radius := c.Float64("radius")
	if err := search.ValidateRadius(radius); err != nil {
		return err
	}
	order, err := petrol.ParseOrderBy(c.String("order"))
	if err != nil {
		return err
	}
	detailed, err := parseDisplay(c.String("display"))
	if err != nil {
		return err
	}
	var brands []string
	for _, b := range c.StringSlice("brand") {
		brands = append(brands, petrol.CanonicalBrand(strings.TrimSpace(b)))
	}

	session := search.NewSession(newAPI(c), newLogger(c))
	session.SetOptions(search.OptionsChanged{
		RadiusKm: &radius,
		Order:    &order,
		Brands:   petrol.NewBrandSet(brands...),
	})

	st, err := session.Search(c.Context, suburb)
	if err != nil {
		return errors.New(search.UserMessage(err))
	}

	out := c.App.Writer
	switch st.Phase {
	case search.PhaseNoMatch:
		fmt.Fprintln(out, st.Message)
		return nil
	case search.PhaseChoosing:
		cand, err := chooseCandidate(c, search.Resolution{Query: st.Query, Candidates: st.Candidates})
		if err != nil {
			return err
		}
		st, err = session.ChooseCandidate(c.Context, cand)
		if err != nil {
			return errors.New(search.UserMessage(err))
		}
	}

	return printStations(out, st, detailed)
}

func parseDisplay(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "simple":
		return false, nil
	case "detailed":
		return true, nil
	default:
		return false, fmt.Errorf("invalid display %q: expected simple or detailed", s)
	}
}

func printStations(out io.Writer, st search.State, detailed bool) error {
	if st.Selected == nil {
		return errors.New("no suburb selected")
	}
	fmt.Fprintf(out, "Stations within %g km of %s\n\n", st.RadiusKm, st.Selected)

	visible := st.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if detailed {
		fmt.Fprintln(w, "STATION\tBRAND\tADDRESS\tPRICE\tDISTANCE\tCHANGE\tDATE\tMAP")
	} else {
		fmt.Fprintln(w, "STATION\tADDRESS\tPRICE\tDISTANCE")
	}
	for _, s := range visible {
		price, distance := formatPrice(s), formatDistance(s)
		if detailed {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Name, petrol.Label(s.Name), s.Address, price, distance,
				petrol.FormatChange(s.Changes.String()), s.Date, geo.StationDirections(s, *st.Selected))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.Address, price, distance)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing stations: %w", err)
	}

	fmt.Fprintf(out, "\nFound %d stations\n", len(visible))
	return nil
}

func formatPrice(s api.Station) string {
	if s.Price == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", s.PriceValue())
}

func formatDistance(s api.Station) string {
	if s.DistanceKm == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f km", s.DistanceValue())
}
