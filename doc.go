/*
Package hosthttp is a client SDK for host-provided, handle-based HTTP.

Some execution environments (WebAssembly guests in particular) do not
give programs a socket API. Instead the host runtime exposes a small set
of HTTP primitives: open a request, read a response header, read response
body bytes, and close the session, each addressed by an opaque numeric
handle and communicating through caller-owned byte buffers and numeric
status codes.

These libraries turn that raw surface into a safe request/response
object. The session package implements the session lifecycle and the
buffered read loops (including the host's retry-sentinel protocol), the
request package builds and serializes the request descriptor the host
consumes, and the hosterr package maps host status codes onto a closed
set of error kinds.

The host boundary itself is the driver.Driver interface. The driver/wasm
package binds it to the raw host imports for WebAssembly builds, the
driver/native package provides a loopback implementation executing real
HTTP for native builds, and driver/drivertest offers a scripted fake for
testing session logic without any host present.

See the session sub-directory for more information about Session objects
and their read protocols.
*/
package hosthttp
