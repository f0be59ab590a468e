/*
Package session offers the host HTTP Session implementation.

A Session wraps one open host-side request. Open builds the request
descriptor, serializes it, and calls the host's open primitive via the
configured driver; the returned Session owns the numeric handle the
host assigned and carries the response status.

Reading

Header and body retrieval share one streaming protocol: loop over the
host's buffered read primitive with a fixed-size scratch buffer,
appending each chunk to an accumulator, until the host reports either a
terminal code or a zero-byte success (end of stream). The host may also
report a retry sentinel, a transient busy condition that is not an
error; the loop retries it transparently. The reference host behavior
is an unbounded busy spin on that sentinel, so the RetryPolicy makes
waiting explicit: the default yields the scheduler between unbounded
retries, and callers may cap retries or add a sleep backoff via
WithRetryPolicy without changing the observable semantics.

ReadAllBody and Header run the protocol to completion. ReadBody is the
single-shot building block (one host read, no retry handling) for
callers pacing consumption themselves, and BodyReader adapts it to
io.Reader for use with io.Copy and streaming decoders.

Lifecycle

Each Session must be closed exactly once; Close is the single release
point for the host-side resource, and skipping it leaks the session for
the lifetime of the process. Use Do, or defer Close immediately after a
successful Open. Close discards the host's return code deliberately and
marks the Session dead, so later reads fail locally with InvalidHandle
instead of reaching the host with a stale handle. A Session is not safe
for concurrent use; open one Session per goroutine instead.
*/
package session
