package session

import (
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hostfns/hosthttp/driver"
	"github.com/hostfns/hosthttp/hosterr"
)

// Option is a Session option function, applied at Open.
type Option func(*Session)

// WithDriver sets the host driver the session issues primitives against.
// Open fails with hosterr.InvalidDriver when no driver is set.
func WithDriver(d driver.Driver) Option { return func(s *Session) { s.drv = d } }

// WithRetryPolicy sets the policy applied to the host's retry sentinel.
func WithRetryPolicy(p RetryPolicy) Option { return func(s *Session) { s.retry = p } }

// WithLogger sets the session logger. The default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithBufferSize sets the scratch buffer size for the read loops.
func WithBufferSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.bufsize = n
		}
	}
}

// RetryPolicy controls how a session waits when the host reports the
// retry sentinel (no data yet, call again).
//
// The host contract promises eventual progress but the reference
// behavior places no bound on consecutive retries; the policy makes
// that explicit. The zero value retries without bound, yielding the
// scheduler between attempts so a busy host does not starve other
// goroutines.
type RetryPolicy struct {
	// MaxRetries caps consecutive retries between data chunks;
	// 0 means unbounded. Exhausting the cap reports
	// hosterr.RuntimeError to the caller.
	MaxRetries int
	// Backoff is slept between retries; 0 yields the scheduler instead.
	Backoff time.Duration
}

// DefaultRetryPolicy returns the unbounded, yield-only policy.
func DefaultRetryPolicy() RetryPolicy { return RetryPolicy{} }

// wait blocks according to the policy before retry number attempt
// (1-based), or reports that the retry budget is exhausted.
func (p RetryPolicy) wait(attempt int) error {
	if p.MaxRetries > 0 && attempt > p.MaxRetries {
		return errors.Wrapf(hosterr.RuntimeError, "host still busy after %d retries", p.MaxRetries)
	}
	if p.Backoff > 0 {
		time.Sleep(p.Backoff)
	} else {
		runtime.Gosched()
	}
	return nil
}
