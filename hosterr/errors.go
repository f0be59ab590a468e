package hosterr

import (
	"bytes"
	"errors"
	"fmt"
)

// Kind represents a host HTTP failure kind.
//
// The host reports failures as numeric status codes; FromCode translates
// those into Kinds. TextDecodeError is the one Kind also produced locally,
// when a header value read from the host is not valid UTF-8.
type Kind int

const (
	// InvalidDriver indicates no usable host driver is available
	InvalidDriver Kind = iota
	// InvalidHandle indicates an unknown or already closed session handle
	InvalidHandle
	// MemoryAccessError indicates the host could not access a guest buffer
	MemoryAccessError
	// BufferTooSmall indicates a value did not fit the supplied buffer
	BufferTooSmall
	// HeaderNotFound indicates the response carries no such header
	HeaderNotFound
	// TextDecodeError indicates header bytes were not valid text
	TextDecodeError
	// DestinationNotAllowed indicates the request target is not permitted
	DestinationNotAllowed
	// InvalidMethod indicates the request method was rejected
	InvalidMethod
	// InvalidEncoding indicates a malformed request descriptor
	InvalidEncoding
	// InvalidUrl indicates the request URL could not be parsed
	InvalidUrl
	// RequestError indicates the request failed at the transport layer
	RequestError
	// RuntimeError is a host-internal failure; also the mapping for any
	// unrecognized host status code
	RuntimeError
	// TooManySessions indicates the host's concurrent session cap was hit
	TooManySessions
	// PermissionDenied indicates the caller lacks the HTTP capability
	PermissionDenied
)

func (k Kind) String() string {
	switch k {
	case InvalidDriver:
		return "invalid driver"
	case InvalidHandle:
		return "invalid handle"
	case MemoryAccessError:
		return "memory access error"
	case BufferTooSmall:
		return "buffer too small"
	case HeaderNotFound:
		return "header not found"
	case TextDecodeError:
		return "text decode error"
	case DestinationNotAllowed:
		return "destination not allowed"
	case InvalidMethod:
		return "invalid method"
	case InvalidEncoding:
		return "invalid encoding"
	case InvalidUrl:
		return "invalid url"
	case RequestError:
		return "request error"
	case RuntimeError:
		return "runtime error"
	case TooManySessions:
		return "too many sessions"
	case PermissionDenied:
		return "permission denied"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error implements the error interface, so Kinds can be returned and
// matched directly with errors.Is, including through wrapped errors.
func (k Kind) Error() string { return k.String() }

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	for kind := InvalidDriver; kind <= PermissionDenied; kind++ {
		if string(b) == kind.String() {
			*k = kind
			return nil
		}
	}
	return errors.New("unknown value")
}

// Host status codes. Code 0 is success and the maximum representable
// code is the retry sentinel; neither belongs to the failure taxonomy.
const (
	codeInvalidHandle         uint32 = 1
	codeMemoryAccessError     uint32 = 2
	codeBufferTooSmall        uint32 = 3
	codeHeaderNotFound        uint32 = 4
	codeTextDecodeError       uint32 = 5
	codeDestinationNotAllowed uint32 = 6
	codeInvalidMethod         uint32 = 7
	codeInvalidEncoding       uint32 = 8
	codeInvalidUrl            uint32 = 9
	codeRequestError          uint32 = 10
	codeRuntimeError          uint32 = 11
	codeTooManySessions       uint32 = 12
	codePermissionDenied      uint32 = 13
)

// FromCode maps a non-zero host status code to its Kind. Codes without a
// defined meaning map to RuntimeError rather than being dropped.
func FromCode(code uint32) Kind {
	switch code {
	case codeInvalidHandle:
		return InvalidHandle
	case codeMemoryAccessError:
		return MemoryAccessError
	case codeBufferTooSmall:
		return BufferTooSmall
	case codeHeaderNotFound:
		return HeaderNotFound
	case codeTextDecodeError:
		return TextDecodeError
	case codeDestinationNotAllowed:
		return DestinationNotAllowed
	case codeInvalidMethod:
		return InvalidMethod
	case codeInvalidEncoding:
		return InvalidEncoding
	case codeInvalidUrl:
		return InvalidUrl
	case codeRequestError:
		return RequestError
	case codeRuntimeError:
		return RuntimeError
	case codeTooManySessions:
		return TooManySessions
	case codePermissionDenied:
		return PermissionDenied
	default:
		return RuntimeError
	}
}

// Code returns the host status code for k. Kinds the host never reports
// by code (only InvalidDriver) return the RuntimeError code.
func (k Kind) Code() uint32 {
	switch k {
	case InvalidHandle:
		return codeInvalidHandle
	case MemoryAccessError:
		return codeMemoryAccessError
	case BufferTooSmall:
		return codeBufferTooSmall
	case HeaderNotFound:
		return codeHeaderNotFound
	case TextDecodeError:
		return codeTextDecodeError
	case DestinationNotAllowed:
		return codeDestinationNotAllowed
	case InvalidMethod:
		return codeInvalidMethod
	case InvalidEncoding:
		return codeInvalidEncoding
	case InvalidUrl:
		return codeInvalidUrl
	case RequestError:
		return codeRequestError
	case TooManySessions:
		return codeTooManySessions
	case PermissionDenied:
		return codePermissionDenied
	default:
		return codeRuntimeError
	}
}
