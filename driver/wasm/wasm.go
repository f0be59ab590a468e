//go:build wasip1

// Package wasm binds driver.Driver to the raw host imports available to
// WebAssembly guests. All slice passing is bounds-checked before the
// pointer/length pair crosses the boundary.
package wasm

import (
	"unsafe"

	"github.com/hostfns/hosthttp/driver"
)

// Driver is the host-import backed driver. The zero value is ready to use.
type Driver struct{}

var _ driver.Driver = Driver{}

// placeholder stands in for the base pointer of zero-length buffers so
// the host never receives a nil pointer.
var placeholder byte

func base(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return unsafe.Pointer(&placeholder)
	}
	return unsafe.Pointer(&b[0])
}

func (Driver) Open(url, options []byte) (handle, status, code uint32) {
	code = httpReq(
		base(url), uint32(len(url)),
		base(options), uint32(len(options)),
		unsafe.Pointer(&handle), unsafe.Pointer(&status),
	)
	return handle, status, code
}

func (Driver) ReadHeader(handle uint32, name, buf []byte) (n, code uint32) {
	code = httpReadHeader(
		handle,
		base(name), uint32(len(name)),
		base(buf), uint32(len(buf)),
		unsafe.Pointer(&n),
	)
	return n, code
}

func (Driver) ReadBody(handle uint32, buf []byte) (n, code uint32) {
	code = httpReadBody(handle, base(buf), uint32(len(buf)), unsafe.Pointer(&n))
	return n, code
}

func (Driver) Close(handle uint32) (code uint32) {
	return httpClose(handle)
}

//go:wasmimport blockless_http http_req
func httpReq(url unsafe.Pointer, urlLen uint32, opts unsafe.Pointer, optsLen uint32, fd, status unsafe.Pointer) uint32

//go:wasmimport blockless_http http_read_header
func httpReadHeader(handle uint32, header unsafe.Pointer, headerLen uint32, buf unsafe.Pointer, bufLen uint32, num unsafe.Pointer) uint32

//go:wasmimport blockless_http http_read_body
func httpReadBody(handle uint32, buf unsafe.Pointer, bufLen uint32, num unsafe.Pointer) uint32

//go:wasmimport blockless_http http_close
func httpClose(handle uint32) uint32
