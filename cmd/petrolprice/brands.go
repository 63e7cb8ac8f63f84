package main

import (
	"fmt"

	"github.com/rubiojr/petrolprice/internal/petrol"
	"github.com/urfave/cli/v2"
)

func brandsCommand() *cli.Command {
	return &cli.Command{
		Name:   "brands",
		Usage:  "List the brands accepted by --brand",
		Action: brandsAction,
	}
}

func brandsAction(c *cli.Context) error {
	out := c.App.Writer
	fmt.Fprintf(out, "%s\t(no filtering)\n", petrol.BrandAll)
	fmt.Fprintf(out, "%s\t(stations matching no brand)\n", petrol.BrandOthers)
	for _, b := range petrol.Catalog {
		fmt.Fprintln(out, b)
	}
	return nil
}
