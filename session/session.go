package session

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hostfns/hosthttp/driver"
	"github.com/hostfns/hosthttp/hosterr"
	"github.com/hostfns/hosthttp/request"
)

// DefaultBufferSize is the scratch buffer size used by the read loops.
const DefaultBufferSize = 1024

// Session wraps one open host HTTP session. It owns the numeric handle
// assigned by the host at Open and is the only holder of that handle:
// not reusable, not cloneable, and single-threaded by design (multiple
// independent Sessions may coexist; the host multiplexes them).
type Session struct {
	drv     driver.Driver
	retry   RetryPolicy
	log     *zap.Logger
	bufsize int

	handle uint32
	status uint32
	closed bool
}

// Open issues the request described by opts against url and returns the
// Session wrapping the host-side handle.
//
// The request descriptor is built from opts with the fixed default
// timeouts, serialized, and passed to the host's open primitive. Any
// non-zero host code surfaces as the mapped hosterr.Kind and no handle
// is retained. On success the host has allocated a session that persists
// until Close is called; every Open must be paired with a Close.
func Open(url string, opts request.FetchOptions, options ...Option) (*Session, error) {
	s := &Session{
		retry:   DefaultRetryPolicy(),
		log:     zap.NewNop(),
		bufsize: DefaultBufferSize,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.drv == nil {
		return nil, hosterr.InvalidDriver
	}

	desc, err := request.NewOptions(opts.Method, request.DefaultConnectTimeout, request.DefaultReadTimeout).Encode()
	if err != nil {
		return nil, err
	}

	handle, status, code := s.drv.Open([]byte(url), desc)
	if code != driver.CodeSuccess {
		return nil, errors.Wrapf(hosterr.FromCode(code), "open %s", url)
	}
	s.handle, s.status = handle, status
	s.log.Debug("session opened",
		zap.String("url", url),
		zap.Uint32("handle", handle),
		zap.Uint32("status", status))
	return s, nil
}

// StatusCode returns the HTTP-style status the host reported at Open.
func (s *Session) StatusCode() int { return int(s.status) }

// ReadAllBody reads the response body to completion and returns the
// accumulated bytes.
func (s *Session) ReadAllBody() ([]byte, error) {
	if s.closed {
		return nil, hosterr.InvalidHandle
	}
	return s.readStream(func(buf []byte) (uint32, uint32) {
		return s.drv.ReadBody(s.handle, buf)
	})
}

// Header reads the named response header's value to completion.
//
// A missing header surfaces as hosterr.HeaderNotFound from the host,
// never as an empty string. Value bytes that are not valid UTF-8 report
// hosterr.TextDecodeError; this is the one failure generated locally.
func (s *Session) Header(name string) (string, error) {
	if s.closed {
		return "", hosterr.InvalidHandle
	}
	nameBytes := []byte(name)
	value, err := s.readStream(func(buf []byte) (uint32, uint32) {
		return s.drv.ReadHeader(s.handle, nameBytes, buf)
	})
	if err != nil {
		return "", errors.Wrapf(err, "read header %s", name)
	}
	if !utf8.Valid(value) {
		return "", errors.Wrapf(hosterr.TextDecodeError, "read header %s", name)
	}
	return string(value), nil
}

// ReadBody performs exactly one host read into buf and returns the byte
// count, with no looping and no retry handling. Callers wanting manual
// pacing use this instead of ReadAllBody; note the host's retry sentinel
// therefore surfaces as an error (mapped to hosterr.RuntimeError) rather
// than being retried.
func (s *Session) ReadBody(buf []byte) (int, error) {
	if s.closed {
		return 0, hosterr.InvalidHandle
	}
	n, code := s.drv.ReadBody(s.handle, buf)
	if code != driver.CodeSuccess {
		return 0, hosterr.FromCode(code)
	}
	return int(n), nil
}

// Close releases the host-side session. The handle must not be used
// afterwards; reads on a closed Session fail with hosterr.InvalidHandle
// without touching the host. Close is idempotent and never reports
// failure: a non-zero host code is logged and discarded, a deliberate
// simplification since there is nothing useful a caller can do with it.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if code := s.drv.Close(s.handle); code != driver.CodeSuccess {
		s.log.Debug("host close failed",
			zap.Uint32("handle", s.handle),
			zap.Uint32("code", code))
	}
}

// Do opens a session for url, reads the whole body and closes the
// session on all paths, returning the response status and body.
func Do(url string, opts request.FetchOptions, options ...Option) (status int, body []byte, err error) {
	s, err := Open(url, opts, options...)
	if err != nil {
		return 0, nil, err
	}
	defer s.Close()

	body, err = s.ReadAllBody()
	if err != nil {
		return s.StatusCode(), nil, err
	}
	return s.StatusCode(), body, nil
}

// readStream is the shared streaming read protocol. It loops over one
// host read primitive with a fixed-size scratch buffer, appending each
// chunk to the accumulator, until the host reports end of stream (zero
// bytes) or a terminal code. The retry sentinel is handled transparently
// per the session's RetryPolicy and never surfaces as an error unless
// the policy's retry budget runs out.
func (s *Session) readStream(read func(buf []byte) (n, code uint32)) ([]byte, error) {
	var acc []byte
	buf := make([]byte, s.bufsize)
	retries := 0
	for {
		n, code := read(buf)
		switch {
		case code == driver.CodeRetry:
			retries++
			if err := s.retry.wait(retries); err != nil {
				return nil, err
			}
		case code != driver.CodeSuccess:
			return nil, hosterr.FromCode(code)
		case n > 0:
			acc = append(acc, buf[:n]...)
			retries = 0
		default:
			return acc, nil
		}
	}
}
