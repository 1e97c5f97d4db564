package queue

// ring is a growable circular buffer. It is not safe for concurrent use;
// State guards it with its mutex.
type ring[T any] struct {
	buf  []T
	head int
	n    int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) len() int { return r.n }

func (r *ring[T]) pushBack(v T) {
	if r.n == len(r.buf) {
		r.grow()
	}

	r.buf[(r.head+r.n)%len(r.buf)] = v
	r.n++
}

// popFront panics on an empty ring; callers check len first.
func (r *ring[T]) popFront() T {
	var zero T

	v := r.buf[r.head]
	r.buf[r.head] = zero // drop the reference for the GC
	r.head = (r.head + 1) % len(r.buf)
	r.n--

	if r.n == 0 {
		r.head = 0
	}

	return v
}

func (r *ring[T]) grow() {
	size := 2 * len(r.buf)
	if size == 0 {
		size = 1
	}

	buf := make([]T, size)
	k := copy(buf, r.buf[r.head:])
	copy(buf[k:], r.buf[:r.head])

	r.buf = buf
	r.head = 0
}

func (r *ring[T]) clear() {
	clear(r.buf)
	r.head = 0
	r.n = 0
}
