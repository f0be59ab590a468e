package native

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfns/hosthttp/driver"
	"github.com/hostfns/hosthttp/hosterr"
	"github.com/hostfns/hosthttp/request"
	"github.com/hostfns/hosthttp/session"
)

func descriptor(t *testing.T, method string) []byte {
	t.Helper()
	b, err := request.NewOptions(method, 2, 2).Encode()
	require.NoError(t, err)
	return b
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Origin", "native-test")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"a":1}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenReadClose(t *testing.T) {
	srv := newServer(t)
	d := New(Config{})

	handle, status, code := d.Open([]byte(srv.URL), descriptor(t, "GET"))
	require.Equal(t, driver.CodeSuccess, code)
	assert.Equal(t, uint32(200), status)

	// body served in cursored chunks until exhaustion
	buf := make([]byte, 4)
	n, code := d.ReadBody(handle, buf)
	require.Equal(t, driver.CodeSuccess, code)
	assert.Equal(t, `{"a"`, string(buf[:n]))
	n, code = d.ReadBody(handle, buf)
	require.Equal(t, driver.CodeSuccess, code)
	assert.Equal(t, `:1}`, string(buf[:n]))
	n, code = d.ReadBody(handle, buf)
	require.Equal(t, driver.CodeSuccess, code)
	assert.Zero(t, n, "end of stream")

	assert.Equal(t, driver.CodeSuccess, d.Close(handle))
	_, code = d.ReadBody(handle, buf)
	assert.Equal(t, hosterr.InvalidHandle.Code(), code)
	assert.Equal(t, hosterr.InvalidHandle.Code(), d.Close(handle))
}

func TestReadHeader(t *testing.T) {
	srv := newServer(t)
	d := New(Config{})

	handle, _, code := d.Open([]byte(srv.URL), descriptor(t, "GET"))
	require.Equal(t, driver.CodeSuccess, code)
	defer d.Close(handle)

	buf := make([]byte, 64)
	n, code := d.ReadHeader(handle, []byte("X-Origin"), buf)
	require.Equal(t, driver.CodeSuccess, code)
	assert.Equal(t, "native-test", string(buf[:n]))
	n, code = d.ReadHeader(handle, []byte("X-Origin"), buf)
	require.Equal(t, driver.CodeSuccess, code)
	assert.Zero(t, n, "value exhausted")

	_, code = d.ReadHeader(handle, []byte("X-Missing"), buf)
	assert.Equal(t, hosterr.HeaderNotFound.Code(), code)
}

// A value larger than the read buffer must arrive in partial fills and
// still reach the 0-byte terminator, like the body cursor.
func TestReadHeaderLongValue(t *testing.T) {
	long := strings.Repeat("v", 2500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Long", long)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	d := New(Config{})

	handle, _, code := d.Open([]byte(srv.URL), descriptor(t, "GET"))
	require.Equal(t, driver.CodeSuccess, code)
	defer d.Close(handle)

	buf := make([]byte, 1024)
	var got []byte
	for reads := 0; ; reads++ {
		require.Less(t, reads, 10, "value must exhaust, not restart")
		n, code := d.ReadHeader(handle, []byte("X-Long"), buf)
		require.Equal(t, driver.CodeSuccess, code)
		if n == 0 {
			break
		}
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, long, string(got))

	// after exhaustion the value is served again from the start
	n, code := d.ReadHeader(handle, []byte("X-Long"), buf)
	require.Equal(t, driver.CodeSuccess, code)
	assert.Equal(t, long[:n], string(buf[:n]))

	// the session read loop terminates over the same cursor
	s, err := session.Open(srv.URL, request.NewFetchOptions("GET"),
		session.WithDriver(New(Config{})), session.WithBufferSize(512))
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Header("X-Long")
	require.NoError(t, err)
	assert.Equal(t, long, v)
}

func TestOpenRejections(t *testing.T) {
	srv := newServer(t)
	for _, tc := range []struct {
		name string
		cfg  Config
		url  string
		opts []byte
		want uint32
	}{
		{
			name: "bad descriptor",
			url:  srv.URL,
			opts: []byte(`{"method":`),
			want: hosterr.InvalidEncoding.Code(),
		},
		{
			name: "bad method",
			url:  srv.URL,
			opts: []byte(`{"method":"FROB","connectTimeout":1,"readTimeout":1,"headers":"{}","body":null}`),
			want: hosterr.InvalidMethod.Code(),
		},
		{
			name: "relative url",
			url:  "/no/scheme",
			want: hosterr.InvalidUrl.Code(),
		},
		{
			name: "unsupported scheme",
			url:  "ftp://example.test/x",
			want: hosterr.InvalidUrl.Code(),
		},
		{
			name: "destination not allowed",
			cfg:  Config{AllowedHosts: []string{"api.example.test"}},
			url:  srv.URL,
			want: hosterr.DestinationNotAllowed.Code(),
		},
		{
			name: "unreachable",
			url:  "http://127.0.0.1:1/x",
			want: hosterr.RequestError.Code(),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := New(tc.cfg)
			opts := tc.opts
			if opts == nil {
				opts = descriptor(t, "GET")
			}
			_, _, code := d.Open([]byte(tc.url), opts)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestSessionCap(t *testing.T) {
	srv := newServer(t)
	d := New(Config{MaxSessions: 1})

	handle, _, code := d.Open([]byte(srv.URL), descriptor(t, "GET"))
	require.Equal(t, driver.CodeSuccess, code)

	_, _, code = d.Open([]byte(srv.URL), descriptor(t, "GET"))
	assert.Equal(t, hosterr.TooManySessions.Code(), code)

	// closing frees the slot
	require.Equal(t, driver.CodeSuccess, d.Close(handle))
	handle, _, code = d.Open([]byte(srv.URL), descriptor(t, "GET"))
	require.Equal(t, driver.CodeSuccess, code)
	d.Close(handle)
}

// The loopback driver must satisfy the session layer end to end.
func TestSessionOverNativeDriver(t *testing.T) {
	srv := newServer(t)

	s, err := session.Open(srv.URL+"/x", request.NewFetchOptions("GET"), session.WithDriver(New(Config{})))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 200, s.StatusCode())

	ct, err := s.Header("X-Origin")
	require.NoError(t, err)
	assert.Equal(t, "native-test", ct)

	body, err := s.ReadAllBody()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))
}
