// Package drivertest provides a scripted in-memory host for testing
// code built on driver.Driver, with no host runtime or network present.
package drivertest

import (
	"github.com/hostfns/hosthttp/driver"
	"github.com/hostfns/hosthttp/hosterr"
)

// Step is one scripted reply from a read primitive. When Code is
// driver.CodeSuccess, Data (which must fit the caller's buffer) is
// copied out; for any other Code, Data is ignored.
type Step struct {
	Code uint32
	Data []byte
}

// Chunk returns a success Step carrying data.
func Chunk(data string) Step { return Step{Code: driver.CodeSuccess, Data: []byte(data)} }

// Retries returns n retry-sentinel Steps.
func Retries(n int) []Step {
	steps := make([]Step, n)
	for i := range steps {
		steps[i] = Step{Code: driver.CodeRetry}
	}
	return steps
}

// Fake is a scripted driver.Driver. Configure the exported fields, hand
// it to a session, then assert on the recorded calls.
//
// Read scripts are consumed one Step per primitive call. Once a body or
// header script is exhausted, further reads report end of stream (zero
// bytes, CodeSuccess). Header names absent from Headers report the
// header-not-found code, matching host behavior.
type Fake struct {
	// Open script and recordings
	OpenCode   uint32
	OpenHandle uint32
	OpenStatus uint32
	OpenCalls  int
	LastURL    string
	LastOpts   string

	// Read scripts, consumed in order
	Body    []Step
	Headers map[string][]Step

	// Close script and recordings
	CloseCode   uint32
	CloseCalls  int
	LastClosed  uint32
	BodyCalls   int
	HeaderCalls int
}

var _ driver.Driver = (*Fake)(nil)

func (f *Fake) Open(url, options []byte) (handle, status, code uint32) {
	f.OpenCalls++
	f.LastURL = string(url)
	f.LastOpts = string(options)
	if f.OpenCode != driver.CodeSuccess {
		return 0, 0, f.OpenCode
	}
	return f.OpenHandle, f.OpenStatus, driver.CodeSuccess
}

func (f *Fake) ReadBody(handle uint32, buf []byte) (n, code uint32) {
	f.BodyCalls++
	var step Step
	step, f.Body = next(f.Body)
	return reply(step, buf)
}

func (f *Fake) ReadHeader(handle uint32, name, buf []byte) (n, code uint32) {
	f.HeaderCalls++
	steps, ok := f.Headers[string(name)]
	if !ok {
		return 0, hosterr.HeaderNotFound.Code()
	}
	var step Step
	step, f.Headers[string(name)] = next(steps)
	return reply(step, buf)
}

func (f *Fake) Close(handle uint32) (code uint32) {
	f.CloseCalls++
	f.LastClosed = handle
	return f.CloseCode
}

func next(steps []Step) (Step, []Step) {
	if len(steps) == 0 {
		return Step{Code: driver.CodeSuccess}, nil
	}
	return steps[0], steps[1:]
}

func reply(step Step, buf []byte) (n, code uint32) {
	if step.Code != driver.CodeSuccess {
		return 0, step.Code
	}
	return uint32(copy(buf, step.Data)), driver.CodeSuccess
}
