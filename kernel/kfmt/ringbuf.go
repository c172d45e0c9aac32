package kfmt

import "io"

// ringBufferSize defines the size of the ring buffer that buffers early
// Printf output. The ring buffer size must always be a power of 2.
const ringBufferSize = 2048

// ringBuffer keeps the most recent ringBufferSize bytes written to it. Once
// full, each write overwrites the oldest unread bytes.
type ringBuffer struct {
	buffer [ringBufferSize]byte

	// rIndex points to the oldest unread byte; count is the number of
	// unread bytes.
	rIndex, count int
}

// Write writes len(p) bytes from p to the ringBuffer.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[(rb.rIndex+rb.count)&(ringBufferSize-1)] = b
		if rb.count == ringBufferSize {
			rb.rIndex = (rb.rIndex + 1) & (ringBufferSize - 1)
		} else {
			rb.count++
		}
	}

	return len(p), nil
}

// Read reads up to len(p) bytes into p. It returns the number of bytes read
// (0 <= n <= len(p)) or io.EOF if the buffer is empty.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.count == 0 {
		return 0, io.EOF
	}

	// Copy up to the end of the backing array; callers such as io.Copy
	// come back for the wrapped-around part.
	n := ringBufferSize - rb.rIndex
	if n > rb.count {
		n = rb.count
	}
	n = copy(p, rb.buffer[rb.rIndex:rb.rIndex+n])

	rb.rIndex = (rb.rIndex + n) & (ringBufferSize - 1)
	rb.count -= n
	return n, nil
}
