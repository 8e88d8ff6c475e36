package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v2"

	"github.com/wanderflow/wanderflow/internal/channel"
	"github.com/wanderflow/wanderflow/internal/dispatcher"
	"github.com/wanderflow/wanderflow/internal/logging"
	"github.com/wanderflow/wanderflow/internal/preview"
	"github.com/wanderflow/wanderflow/internal/runloop"
	"github.com/wanderflow/wanderflow/internal/surface"
)

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "play an animation on a logging map surface",
		Flags: append(requestFlagSet(), &cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "read player commands from stdin instead of playing once",
		}),
		Action: withHost(runPreview),
	}
}

func runPreview(c *cli.Context, h *host) error {
	cfg, err := h.animationConfig(c)
	if err != nil {
		return err
	}
	pipeline, err := h.pipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interactive := c.Bool("interactive")
	loop := runloop.New(h.settings.Playback.FPS, h.logger)

	opts := []preview.Option{
		preview.WithLogger(h.logger),
		preview.WithTimings(preview.TimingsFromSettings(h.settings)),
	}
	if h.influx != nil {
		opts = append(opts, preview.WithRecorder(h.influx))
	}
	if !interactive {
		opts = append(opts, preview.WithExitHook(cancel))
	}
	session, err := preview.NewSession(pipeline, loop, surface.NewLogSurface(h.logger), h.trip, opts...)
	if err != nil {
		return err
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(h.console))
	if err != nil {
		return err
	}
	registerCommands(d, session, cancel)

	var createErr error
	loop.Post(func() {
		if _, err := session.CreateAnimation(ctx, cfg); err != nil {
			createErr = err
			cancel()
			return
		}
		if !interactive {
			createErr = session.Play()
		}
	})

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return ignoreCanceled(loop.Run(ctx))
	})
	if interactive {
		out := c.App.Writer
		fmt.Fprintln(out, "type help for commands")
		lines := channel.Lines(os.Stdin, 16)
		p.Go(func(ctx context.Context) error {
			return readCommands(ctx, lines, loop, d, out, cancel)
		})
	}
	err = p.Wait()

	// the loop has stopped, so the session is ours
	session.Close()
	return errors.Join(err, createErr)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readCommands dispatches each line on the loop goroutine and prints the
// result. EOF ends the preview.
func readCommands(ctx context.Context, lines channel.Receiver[string], loop *runloop.Loop, d *dispatcher.Dispatcher, out io.Writer, quit func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines.Receive():
			if !ok {
				quit()
				return nil
			}
			e, ok := dispatcher.ParseLine(line, time.Now())
			if !ok {
				continue
			}
			loop.Post(func() {
				result, err := d.Dispatch(e)
				if err != nil {
					fmt.Fprintln(out, "error:", err)
					return
				}
				if s := formatResult(result); s != "" {
					fmt.Fprintln(out, s)
				}
			})
		}
	}
}
