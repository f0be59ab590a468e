// Package native implements driver.Driver over a real HTTP client, so
// programs built on the session package also run outside a host runtime.
// The request executes in full at Open; reads then serve cursored copies
// of the buffered response, reproducing the host's chunked protocol.
package native

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/hostfns/hosthttp/driver"
	"github.com/hostfns/hosthttp/hosterr"
	"github.com/hostfns/hosthttp/request"
)

// DefaultMaxSessions bounds concurrently open sessions, mirroring the
// session cap a real host enforces.
const DefaultMaxSessions = 16

// Config configures the loopback driver.
type Config struct {
	// MaxSessions caps concurrently open sessions; 0 applies
	// DefaultMaxSessions.
	MaxSessions int
	// AllowedHosts restricts request targets by hostname; empty allows
	// any destination.
	AllowedHosts []string
	// Logger defaults to a nop logger.
	Logger *zap.Logger
}

// Driver is a loopback host: every failure is reported through the host
// status-code contract rather than as Go errors, exactly as the session
// layer expects from a real host.
type Driver struct {
	cfg Config
	log *zap.Logger

	mu       sync.Mutex
	next     uint32
	sessions map[uint32]*state
}

type state struct {
	status uint32
	header http.Header
	body   []byte
	cursor int
	// pending holds header values mid-read, keyed by requested name
	pending map[string][]byte
}

var _ driver.Driver = (*Driver)(nil)

// New returns a loopback driver.
func New(cfg Config) *Driver {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{cfg: cfg, log: log, next: 1, sessions: make(map[uint32]*state)}
}

var methods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

func (d *Driver) Open(rawURL, options []byte) (handle, status, code uint32) {
	desc, err := request.Decode(options)
	if err != nil {
		return 0, 0, hosterr.InvalidEncoding.Code()
	}
	method := strings.ToUpper(strings.TrimSpace(desc.Method))
	if !methods[method] {
		return 0, 0, hosterr.InvalidMethod.Code()
	}
	target, err := url.Parse(string(rawURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return 0, 0, hosterr.InvalidUrl.Code()
	}
	if !d.allowed(target.Hostname()) {
		return 0, 0, hosterr.DestinationNotAllowed.Code()
	}

	d.mu.Lock()
	if len(d.sessions) >= d.cfg.MaxSessions {
		d.mu.Unlock()
		return 0, 0, hosterr.TooManySessions.Code()
	}
	d.mu.Unlock()

	resp, err := execute(method, target.String(), desc)
	if err != nil {
		d.log.Debug("request failed", zap.String("url", target.String()), zap.Error(err))
		return 0, 0, hosterr.RequestError.Code()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sessions) >= d.cfg.MaxSessions {
		return 0, 0, hosterr.TooManySessions.Code()
	}
	handle = d.next
	d.next++
	d.sessions[handle] = &state{
		status:  uint32(resp.StatusCode()),
		header:  resp.Header(),
		body:    resp.Body(),
		pending: make(map[string][]byte),
	}
	return handle, d.sessions[handle].status, driver.CodeSuccess
}

// execute performs the request with the descriptor's timeouts: connect
// timeout on the dialer, read timeout on the whole exchange.
func execute(method, target string, desc request.Options) (*resty.Response, error) {
	dialer := &net.Dialer{Timeout: time.Duration(desc.ConnectTimeout) * time.Second}
	client := resty.New().
		SetTimeout(time.Duration(desc.ReadTimeout) * time.Second).
		SetTransport(&http.Transport{DialContext: dialer.DialContext})

	req := client.R()
	if desc.Body != nil {
		req.SetBody(*desc.Body)
	}
	return req.Execute(method, target)
}

func (d *Driver) ReadBody(handle uint32, buf []byte) (n, code uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.sessions[handle]
	if !ok {
		return 0, hosterr.InvalidHandle.Code()
	}
	copied := copy(buf, st.body[st.cursor:])
	st.cursor += copied
	return uint32(copied), driver.CodeSuccess
}

func (d *Driver) ReadHeader(handle uint32, name, buf []byte) (n, code uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.sessions[handle]
	if !ok {
		return 0, hosterr.InvalidHandle.Code()
	}

	key := string(name)
	remaining, started := st.pending[key]
	if !started {
		values := st.header.Values(key)
		if len(values) == 0 {
			return 0, hosterr.HeaderNotFound.Code()
		}
		remaining = []byte(strings.Join(values, ", "))
	}
	if started && len(remaining) == 0 {
		// end of stream; the next read of this name starts fresh
		delete(st.pending, key)
		return 0, driver.CodeSuccess
	}
	copied := copy(buf, remaining)
	st.pending[key] = remaining[copied:]
	return uint32(copied), driver.CodeSuccess
}

func (d *Driver) Close(handle uint32) (code uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sessions[handle]; !ok {
		return hosterr.InvalidHandle.Code()
	}
	delete(d.sessions, handle)
	return driver.CodeSuccess
}

func (d *Driver) allowed(hostname string) bool {
	if len(d.cfg.AllowedHosts) == 0 {
		return true
	}
	for _, h := range d.cfg.AllowedHosts {
		if strings.EqualFold(h, hostname) {
			return true
		}
	}
	return false
}
