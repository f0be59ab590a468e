package session

import (
	"io"

	"github.com/hostfns/hosthttp/driver"
	"github.com/hostfns/hosthttp/hosterr"
)

// BodyReader returns an io.Reader over the session's response body,
// handling the host's retry sentinel and chunk pacing internally so the
// body composes with io.Copy, json.Decoder and friends. The reader
// returns io.EOF at end of stream.
//
// The reader shares the session's handle; do not mix its use with
// direct ReadBody calls on the same session.
func (s *Session) BodyReader() io.Reader {
	return &bodyReader{s: s, scratch: make([]byte, s.bufsize)}
}

// bodyReader adapts the buffered host read to io.Reader. Chunks larger
// than the destination are parked in an overflow buffer and drained by
// subsequent calls before the host is read again.
type bodyReader struct {
	s       *Session
	scratch []byte
	buf     []byte // overflow from a previous host read
	eof     bool
	retries int
}

func (r *bodyReader) Read(b []byte) (int, error) {
	// evacuate the overflow buffer if present
	if len(r.buf) > 0 {
		n := copy(b, r.buf)
		r.buf = r.buf[n:]
		return n, nil
	}
	if r.eof {
		return 0, io.EOF
	}
	if r.s.closed {
		return 0, hosterr.InvalidHandle
	}
	if len(b) == 0 {
		return 0, nil
	}

	for {
		n, code := r.s.drv.ReadBody(r.s.handle, r.scratch)
		switch {
		case code == driver.CodeRetry:
			r.retries++
			if err := r.s.retry.wait(r.retries); err != nil {
				return 0, err
			}
		case code != driver.CodeSuccess:
			return 0, hosterr.FromCode(code)
		case n == 0:
			r.eof = true
			return 0, io.EOF
		default:
			r.retries = 0
			m := copy(b, r.scratch[:n])
			if m < int(n) {
				r.buf = append(r.buf[:0], r.scratch[m:n]...)
			}
			return m, nil
		}
	}
}
