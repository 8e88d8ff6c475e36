package dispatcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}

	return d, logger
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	called := false
	d.Register("seek", func(e Event) (any, error) {
		called = true
		return "result", nil
	})

	result, err := d.Dispatch(Event{Command: "seek", Args: []string{"0.5"}})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
	if result != "result" {
		t.Errorf("expected 'result', got %v", result)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Dispatch(Event{Command: "fly"})

	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestDispatcher_MinArgs(t *testing.T) {
	d, _ := newTestDispatcher(t)

	calls := 0
	d.Register("select", func(e Event) (any, error) {
		calls++
		return e.Args[0], nil
	}, MinArgs(1))

	_, err := d.Dispatch(Event{Command: "select"})
	if !errors.Is(err, ErrMissingArgs) {
		t.Errorf("expected ErrMissingArgs, got %v", err)
	}
	if calls != 0 {
		t.Errorf("handler must not run without its arguments")
	}

	result, err := d.Dispatch(Event{Command: "select", Args: []string{"loc-3"}})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "loc-3" {
		t.Errorf("expected 'loc-3', got %v", result)
	}
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("play", func(e Event) (any, error) {
		return "ok", nil
	}, Logged())

	d.Dispatch(Event{Command: "play", Args: []string{"a", "b"}})

	logger.mu.Lock()
	defer logger.mu.Unlock()

	if len(logger.messages) != 2 {
		t.Errorf("expected 2 log messages, got %d", len(logger.messages))
	}
}

func TestDispatcher_LoggedHandlerError(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("seek", func(e Event) (any, error) {
		return nil, fmt.Errorf("test error")
	}, Logged())

	_, err := d.Dispatch(Event{Command: "seek"})
	if err == nil {
		t.Fatal("expected handler error")
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()

	hasError := false
	for _, msg := range logger.messages {
		if strings.HasPrefix(msg, "ERROR") {
			hasError = true
			break
		}
	}

	if !hasError {
		t.Error("expected error log message")
	}
}

func TestDispatcher_LoggedMinArgsLogsRejection(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register("seek", func(e Event) (any, error) { return nil, nil }, MinArgs(1), Logged())

	d.Dispatch(Event{Command: "seek"})

	logger.mu.Lock()
	defer logger.mu.Unlock()

	if len(logger.messages) == 0 || !strings.HasPrefix(logger.messages[len(logger.messages)-1], "ERROR") {
		t.Errorf("expected rejection to be logged as error, got %v", logger.messages)
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register("pause", func(e Event) (any, error) { return nil, nil })

	if !d.HasHandler("pause") {
		t.Error("expected handler to exist")
	}

	if d.HasHandler("rewind") {
		t.Error("expected handler to not exist")
	}
}

func TestDispatcher_CommandsAndDescriptions(t *testing.T) {
	d, _ := newTestDispatcher(t)

	noop := func(e Event) (any, error) { return nil, nil }
	d.Register("toggle", noop, Describe("play or pause"))
	d.Register("end", noop)
	d.Register("play", noop, Describe("start playback"))

	got := strings.Join(d.Commands(), ",")
	if got != "end,play,toggle" {
		t.Errorf("expected sorted commands, got %s", got)
	}
	if d.Description("toggle") != "play or pause" {
		t.Errorf("unexpected description %q", d.Description("toggle"))
	}
	if d.Description("end") != "" {
		t.Errorf("expected empty description, got %q", d.Description("end"))
	}
}

func TestParseLine(t *testing.T) {
	now := time.Date(2025, 10, 12, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		line    string
		ok      bool
		command string
		args    int
	}{
		{"", false, "", 0},
		{"   \t ", false, "", 0},
		{"play", true, "play", 0},
		{"  SEEK   0.25 ", true, "seek", 1},
		{"select loc-3 extra", true, "select", 2},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			e, ok := ParseLine(tt.line, now)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if e.Command != tt.command {
				t.Errorf("expected command %q, got %q", tt.command, e.Command)
			}
			if len(e.Args) != tt.args {
				t.Errorf("expected %d args, got %d", tt.args, len(e.Args))
			}
			if !e.Timestamp.Equal(now) {
				t.Errorf("expected timestamp %v, got %v", now, e.Timestamp)
			}
		})
	}
}
