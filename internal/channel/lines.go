package channel

import (
	"bufio"
	"io"
	"strings"
)

// Lines reads r line by line in a new goroutine and sends each trimmed line
// on the returned channel. The channel is closed at EOF or on a read error.
// The goroutine blocks on r, so a reader that never ends keeps it alive.
func Lines(r io.Reader, size int) Receiver[string] {
	ch := NewBuffered[string](size)
	go func() {
		defer ch.Close()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch.Send(strings.TrimRight(scanner.Text(), "\r"))
		}
	}()
	return ch
}
