package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/wanderflow/wanderflow/internal/trip"
)

func locationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "locations",
		Usage: "list the trip itinerary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "culture, food, nature, shopping, stay or all",
				Value: trip.CategoryAll,
			},
		},
		Action: withHost(func(c *cli.Context, h *host) error {
			return printLocations(c.App.Writer, h.trip, c.String("category"))
		}),
	}
}

func printLocations(w io.Writer, tr *trip.Trip, category string) error {
	fmt.Fprintf(w, "%s\n%s | %s | %d places | %d photos\n\n",
		tr.Title, tr.Dates, tr.Stats.Distance, tr.Stats.Places, tr.Stats.Photos)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDAY\tTIME\tNAME\tCATEGORY\tRATING\tLNG,LAT")
	for _, l := range tr.Filter(category) {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.1f\t%.4f,%.4f\n",
			l.ID, l.Day, l.Time, l.Name, l.Category, l.Rating, l.Lng, l.Lat)
	}
	return tw.Flush()
}
