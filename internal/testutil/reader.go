package testutil

import (
	"io"
	"sync"
)

// FragmentReader delivers data in the given fragment sizes, one fragment per
// Read call, to exercise arbitrary chunk boundaries. Remaining data after the
// last size is delivered in a single final fragment.
type FragmentReader struct {
	data  []byte
	sizes []int
	err   error
}

// NewFragmentReader returns a reader that splits data at the given sizes.
func NewFragmentReader(data []byte, sizes ...int) *FragmentReader {
	return &FragmentReader{data: data, sizes: sizes, err: io.EOF}
}

// FailWith makes the reader return err instead of io.EOF once data runs out.
func (r *FragmentReader) FailWith(err error) *FragmentReader {
	r.err = err
	return r
}

// Read implements io.Reader.
func (r *FragmentReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := len(r.data)
	if len(r.sizes) > 0 {
		n = r.sizes[0]
		r.sizes = r.sizes[1:]
		if n > len(r.data) {
			n = len(r.data)
		}
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

// Split cuts data into fragments of the given size, the last one possibly shorter.
func Split(data []byte, size int) []int {
	if size <= 0 {
		return nil
	}
	var sizes []int
	for rest := len(data); rest > 0; rest -= size {
		if rest < size {
			sizes = append(sizes, rest)
			break
		}
		sizes = append(sizes, size)
	}
	return sizes
}

// ClosingReader records whether Close was called.
type ClosingReader struct {
	io.Reader
	mu     sync.Mutex
	closed bool
}

// Close implements io.Closer.
func (c *ClosingReader) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *ClosingReader) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
