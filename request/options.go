// Package request builds and serializes the request descriptor consumed
// by the host's open primitive.
package request

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Default timeouts applied to every descriptor, in whole seconds.
// Timeouts are enforced by the host, not by this SDK.
const (
	DefaultConnectTimeout uint32 = 30
	DefaultReadTimeout    uint32 = 10
)

// emptyHeaders is the fixed placeholder the host expects for the
// headers field until per-request headers are supported on the wire.
const emptyHeaders = "{}"

// FetchOptions is the caller-facing request intent. Only the method is
// caller-controlled; timeouts are the fixed defaults.
type FetchOptions struct {
	Method string
}

// NewFetchOptions returns FetchOptions for the given method.
func NewFetchOptions(method string) FetchOptions {
	return FetchOptions{Method: method}
}

// Options is the request descriptor: the canonical description of an
// outgoing request handed to the host alongside the URL. It is immutable
// once constructed; field order matches the host wire shape.
type Options struct {
	Method         string  `json:"method"`
	ConnectTimeout uint32  `json:"connectTimeout"`
	ReadTimeout    uint32  `json:"readTimeout"`
	Headers        string  `json:"headers"`
	Body           *string `json:"body"`
}

// NewOptions returns an Options descriptor with no body. The method is
// not validated here; the host reports invalid-method if it objects.
func NewOptions(method string, connectTimeout, readTimeout uint32) Options {
	return Options{
		Method:         method,
		ConnectTimeout: connectTimeout,
		ReadTimeout:    readTimeout,
		Headers:        emptyHeaders,
	}
}

// Encode serializes the descriptor to its canonical JSON form. Encoding
// is stable: encoding a decoded descriptor reproduces the same bytes.
func (o Options) Encode() ([]byte, error) {
	b, err := json.Marshal(o)
	return b, errors.Wrap(err, "encode request descriptor")
}

// Decode parses a serialized descriptor.
func Decode(b []byte) (Options, error) {
	var o Options
	if err := json.Unmarshal(b, &o); err != nil {
		return Options{}, errors.Wrap(err, "decode request descriptor")
	}
	return o, nil
}
