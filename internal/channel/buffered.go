package channel

// Buffered is a channel with a fixed-size buffer. Only the producer closes it.
type Buffered[T any] struct {
	ch chan T
}

// NewBuffered creates a channel holding up to size values. A negative size
// is treated as 0.
func NewBuffered[T any](size int) *Buffered[T] {
	if size < 0 {
		size = 0
	}
	return &Buffered[T]{ch: make(chan T, size)}
}

// Send blocks while the buffer is full.
func (b *Buffered[T]) Send(v T) {
	b.ch <- v
}

func (b *Buffered[T]) Receive() <-chan T {
	return b.ch
}

// Len returns the number of buffered values.
func (b *Buffered[T]) Len() int {
	return len(b.ch)
}

func (b *Buffered[T]) Close() {
	close(b.ch)
}
