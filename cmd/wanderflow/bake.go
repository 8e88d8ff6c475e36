package main

import (
	"encoding/json"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/wanderflow/wanderflow/internal/baker"
	"github.com/wanderflow/wanderflow/pkg/core"
)

func requestFlagSet() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "from",
			Usage:    "start location id or \"lng,lat\"",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "end location id or \"lng,lat\"",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "straight, route or teleport (default from config)",
		},
		&cli.DurationFlag{
			Name:  "duration",
			Usage: "animation length (default from config)",
		},
		&cli.IntFlag{
			Name:  "resolution",
			Usage: "frames per second of the bake (default from config)",
		},
	}
}

func bakeCommand() *cli.Command {
	return &cli.Command{
		Name:  "bake",
		Usage: "bake an animation and print its frames as JSON",
		Flags: append(requestFlagSet(), &cli.BoolFlag{
			Name:  "pretty",
			Usage: "indent the JSON output",
		}),
		Action: withHost(func(c *cli.Context, h *host) error {
			cfg, err := h.animationConfig(c)
			if err != nil {
				return err
			}
			p, err := h.pipeline()
			if err != nil {
				return err
			}
			res, err := p.Bake(c.Context, cfg)
			if err != nil {
				return err
			}
			return writeBake(c.App.Writer, res, c.Bool("pretty"))
		}),
	}
}

type checkpointJSON struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Position core.LngLat `json:"position"`
}

type bakeJSON struct {
	From       checkpointJSON     `json:"from"`
	To         checkpointJSON     `json:"to"`
	Type       core.AnimationType `json:"type"`
	DurationMS int64              `json:"durationMs"`
	Resolution int                `json:"resolution"`
	Fallback   bool               `json:"fallback"`
	DistanceM  float64            `json:"distanceM"`
	Frames     core.Frames        `json:"frames"`
}

func writeBake(w io.Writer, res baker.Result, pretty bool) error {
	cfg := res.Config
	out := bakeJSON{
		From:       checkpointJSON{ID: cfg.PointA.ID, Name: cfg.PointA.Name, Position: cfg.PointA.Position()},
		To:         checkpointJSON{ID: cfg.PointB.ID, Name: cfg.PointB.Name, Position: cfg.PointB.Position()},
		Type:       cfg.Type,
		DurationMS: cfg.Duration.Milliseconds(),
		Resolution: cfg.Resolution,
		Fallback:   res.Fallback,
		DistanceM:  res.DistanceM,
		Frames:     res.Frames,
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
