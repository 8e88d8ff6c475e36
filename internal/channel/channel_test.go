package channel

import (
	"strings"
	"testing"
	"time"
)

func TestBuffered(t *testing.T) {
	ch := NewBuffered[int](2)
	ch.Send(1)
	ch.Send(2)

	if ch.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ch.Len())
	}
	if v := <-ch.Receive(); v != 1 {
		t.Errorf("first value = %d, want 1", v)
	}
	ch.Close()
	if v, ok := <-ch.Receive(); !ok || v != 2 {
		t.Errorf("second value = %d, %v, want 2, true", v, ok)
	}
	if _, ok := <-ch.Receive(); ok {
		t.Error("expected closed channel")
	}
}

func TestNewBuffered_NegativeSize(t *testing.T) {
	ch := NewBuffered[string](-1)
	go ch.Send("x")
	select {
	case v := <-ch.Receive():
		if v != "x" {
			t.Errorf("got %q, want x", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}

func TestLines(t *testing.T) {
	lines := Lines(strings.NewReader("play\r\nseek 0.5\n\nquit"), 1)

	var got []string
	timeout := time.After(time.Second)
	for {
		select {
		case l, ok := <-lines.Receive():
			if !ok {
				want := []string{"play", "seek 0.5", "", "quit"}
				if strings.Join(got, "|") != strings.Join(want, "|") {
					t.Errorf("lines = %q, want %q", got, want)
				}
				return
			}
			got = append(got, l)
		case <-timeout:
			t.Fatal("timed out waiting for lines")
		}
	}
}
