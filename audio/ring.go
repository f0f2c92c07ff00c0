package audio

import "sync"

// Ring is the hand over point between the emulation thread, which writes
// whole DMA buffers, and the audio callback, which reads whenever the
// device wants more. Both sides take the lock, so a reader never sees half
// of a buffer.
type Ring struct {
	mu   sync.Mutex
	buf  []int16
	r, n int

	// Dropped counts samples overwritten before they were played
	Dropped int
}

// NewRing holds up to size samples
func NewRing(size int) *Ring {
	return &Ring{buf: make([]int16, size)}
}

// Write appends samples, overwriting the oldest ones when full
func (q *Ring) Write(samples []int16) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, s := range samples {
		if q.n == len(q.buf) {
			q.r = (q.r + 1) % len(q.buf)
			q.n--
			q.Dropped++
		}
		q.buf[(q.r+q.n)%len(q.buf)] = s
		q.n++
	}
}

// Read fills p and returns how many samples were available. The rest of
// p is left untouched.
func (q *Ring) Read(p []int16) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for n < len(p) && q.n > 0 {
		p[n] = q.buf[q.r]
		q.r = (q.r + 1) % len(q.buf)
		q.n--
		n++
	}
	return n
}

// Len returns the number of buffered samples
func (q *Ring) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}
