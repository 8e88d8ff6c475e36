package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wanderflow/wanderflow/internal/dispatcher"
	"github.com/wanderflow/wanderflow/internal/preview"
)

// registerCommands binds the interactive preview commands. Handlers run on
// the run loop goroutine.
func registerCommands(d *dispatcher.Dispatcher, s *preview.Session, quit func()) {
	transport := func(fn func() error) dispatcher.HandlerFunc {
		return func(dispatcher.Event) (any, error) {
			if err := fn(); err != nil {
				return nil, err
			}
			return s.Status(), nil
		}
	}

	d.Register("play", transport(s.Play), dispatcher.Logged(), dispatcher.Describe("play, restarting when at the end"))
	d.Register("pause", transport(s.Pause), dispatcher.Logged(), dispatcher.Describe("pause playback"))
	d.Register("toggle", transport(s.Toggle), dispatcher.Logged(), dispatcher.Describe("play or pause"))
	d.Register("start", transport(s.SeekStart), dispatcher.Logged(), dispatcher.Describe("seek to the beginning"))
	d.Register("end", transport(s.SeekEnd), dispatcher.Logged(), dispatcher.Describe("seek to the end"))
	d.Register("rewind", transport(s.Rewind), dispatcher.Logged(), dispatcher.Describe("pause and return to the beginning"))
	d.Register("restart", transport(s.Restart), dispatcher.Logged(), dispatcher.Describe("start over from the beginning"))

	d.Register("seek", func(e dispatcher.Event) (any, error) {
		p, err := parseProgress(e.Args[0])
		if err != nil {
			return nil, err
		}
		if err := s.Seek(p); err != nil {
			return nil, err
		}
		return s.Status(), nil
	}, dispatcher.Logged(), dispatcher.MinArgs(1), dispatcher.Describe("seek <0..1 or N%> jump to a position"))

	d.Register("select", func(e dispatcher.Event) (any, error) {
		if err := s.SelectLocation(e.Args[0]); err != nil {
			return nil, err
		}
		return "ok", nil
	}, dispatcher.Logged(), dispatcher.MinArgs(1), dispatcher.Describe("select <id> fly to a location"))

	d.Register("status", func(dispatcher.Event) (any, error) {
		return s.Status(), nil
	}, dispatcher.Describe("show the preview state"))

	d.Register("help", func(dispatcher.Event) (any, error) {
		var b strings.Builder
		for _, cmd := range d.Commands() {
			fmt.Fprintf(&b, "  %-8s %s\n", cmd, d.Description(cmd))
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}, dispatcher.Describe("list commands"))

	d.Register("quit", func(dispatcher.Event) (any, error) {
		quit()
		return "bye", nil
	}, dispatcher.Logged(), dispatcher.Describe("leave the preview"))
}

// parseProgress accepts a fraction ("0.25") or a percentage ("25%").
func parseProgress(arg string) (float64, error) {
	arg = strings.TrimSpace(arg)
	scale := 1.0
	if strings.HasSuffix(arg, "%") {
		arg = strings.TrimSuffix(arg, "%")
		scale = 100
	}
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid progress %q: %w", arg, err)
	}
	return v / scale, nil
}

func formatResult(v any) string {
	switch r := v.(type) {
	case preview.Status:
		return formatStatus(r)
	case nil:
		return ""
	default:
		return fmt.Sprint(r)
	}
}

func formatStatus(st preview.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-7s %5.1f%%", st.State, st.Progress*100)
	if st.Type != "" {
		fmt.Fprintf(&b, "  %s %s -> %s", st.Type, st.From, st.To)
	}
	if st.Previewing {
		b.WriteString("  [preview]")
	}
	if st.Cursor != nil {
		fmt.Fprintf(&b, "  cursor=%.4f,%.4f", st.Cursor.Lng, st.Cursor.Lat)
	}
	if st.Camera != nil {
		fmt.Fprintf(&b, "  zoom=%.2f", st.Camera.Zoom)
	}
	return b.String()
}
