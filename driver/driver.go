package driver

// Status codes shared by every primitive. All other non-zero codes are
// failure codes belonging to the hosterr taxonomy.
const (
	// CodeSuccess indicates the call completed.
	CodeSuccess uint32 = 0
	// CodeRetry is the host's transient-busy sentinel: no data was
	// produced and the call should be made again. It is not a failure.
	CodeRetry uint32 = ^uint32(0)
)

// Driver is the host HTTP boundary: four primitives addressing one open
// session per numeric handle.
//
// Buffers are caller-owned. A primitive writes at most len(buf) bytes
// into buf and reports the count written; it never retains the slice.
// Implementations translate this contract to whatever the underlying
// host actually speaks (raw pointer/length imports for WebAssembly
// guests, a real HTTP client for native builds, scripted data in tests).
//
// Drivers must be safe for use by multiple sessions; the sessions
// themselves are single-threaded.
type Driver interface {
	// Open issues the request described by the serialized options
	// against url. On CodeSuccess the returned handle addresses the
	// open session and status carries the HTTP-style response status.
	Open(url, options []byte) (handle, status, code uint32)

	// ReadHeader writes up to len(buf) bytes of the named response
	// header's value into buf, returning the count written. A zero
	// count with CodeSuccess means the value is exhausted.
	ReadHeader(handle uint32, name, buf []byte) (n, code uint32)

	// ReadBody writes up to len(buf) bytes of response body into buf,
	// returning the count written. A zero count with CodeSuccess means
	// end of stream.
	ReadBody(handle uint32, buf []byte) (n, code uint32)

	// Close releases the host-side session. The handle is invalid
	// afterwards regardless of the returned code.
	Close(handle uint32) (code uint32)
}
