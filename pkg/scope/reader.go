package scope

import (
	"fmt"
	"time"
)

// Read arms the scope and captures points samples per channel in one bulk
// transfer. Channel 1 and channel 2 samples arrive interleaved byte by byte
// and are demultiplexed before returning; each returned slice holds points
// raw ADC bytes (0-255, 128 = 0 V - see measure.Scale).
//
// There is no hardware trigger on this device: one call is one contiguous
// capture starting whenever the arm command lands, and any edge or level
// triggering is the caller's job, done by post-processing or by timing
// calls. Nothing is retried or averaged.
func (s *Scope) Read(points int, timeout time.Duration) (ch1, ch2 []byte, err error) {
	if err := s.ensureOpen(); err != nil {
		return nil, nil, err
	}
	return readFrom(s.xfer, points, timeout)
}

func readFrom(t Transport, points int, timeout time.Duration) ([]byte, []byte, error) {
	// Arming is a 1-byte vendor read; the byte itself carries nothing.
	arm := make([]byte, 1)
	if _, err := t.Control(reqTypeVendorIn, reqTriggerRead, 0x00, 0x00, arm, timeout); err != nil {
		return nil, nil, fmt.Errorf("arming acquisition: %w", err)
	}

	data := make([]byte, points*2)
	n, err := t.BulkIn(data, timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("bulk read: %w", err)
	}
	if n != len(data) {
		return nil, nil, fmt.Errorf("bulk read: read %d of %d bytes: %w", n, len(data), ErrShortTransfer)
	}

	ch1, ch2 := demux(data)
	return ch1, ch2, nil
}

// demux splits the interleaved stream: even-indexed bytes are channel 1,
// odd-indexed bytes channel 2, order preserved.
func demux(data []byte) ([]byte, []byte) {
	ch1 := make([]byte, len(data)/2)
	ch2 := make([]byte, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		ch1[i/2] = data[i]
		ch2[i/2] = data[i+1]
	}
	return ch1, ch2
}

// Reader is the low-overhead variant of Scope.Read for tight polling loops:
// it binds the open session's transfer operations once at construction and
// skips the per-call open check. Output is identical to Scope.Read for the
// same input.
//
// A Reader is valid only while its session stays open. Closing the Scope
// (explicitly, or implicitly via Flash) leaves the Reader holding a dead
// handle, and using it then is undefined - this precondition is deliberately
// not guarded.
type Reader struct {
	xfer Transport
}

// NewReader opens the session if needed and returns a Reader bound to it.
func (s *Scope) NewReader() (*Reader, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	return &Reader{xfer: s.xfer}, nil
}

// Read behaves exactly like Scope.Read.
func (r *Reader) Read(points int, timeout time.Duration) (ch1, ch2 []byte, err error) {
	return readFrom(r.xfer, points, timeout)
}
