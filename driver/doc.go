/*
Package driver defines the host HTTP boundary.

The host exposes four primitives (open, read-header, read-body, close)
keyed by an opaque numeric handle, exchanging data through caller-owned
byte buffers and numeric status codes. Driver is that surface as a Go
interface, so the session layer can be exercised against an in-memory
fake (driver/drivertest) and bound to a real host (driver/wasm) or a
loopback HTTP implementation (driver/native) without change.
*/
package driver
