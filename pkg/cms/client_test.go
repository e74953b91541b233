package cms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/samvad-hq/folio-content/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer serves a fixed response and records every request URL.
type recordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*url.URL
}

func newRecordingServer(t *testing.T, status int, body string) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, r.URL)
		rs.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) last(t *testing.T) *url.URL {
	t.Helper()
	rs.mu.Lock()
	defer rs.mu.Unlock()
	require.NotEmpty(t, rs.requests, "no request recorded")
	return rs.requests[len(rs.requests)-1]
}

func newTestClient(t *testing.T, origin string, opts ...Option) *Client {
	t.Helper()
	c, err := New(origin, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsInvalidOrigins(t *testing.T) {
	for _, origin := range []string{"", "   ", "localhost:1337/x", "/relative"} {
		_, err := New(origin)
		assert.Error(t, err, "origin %q", origin)
	}
}

func TestEndpointJoinsAPIPrefixAndQuery(t *testing.T) {
	c := newTestClient(t, "http://backend:1337")
	got := c.endpoint("/projects", map[string]string{"status": "published"})
	assert.Equal(t, "http://backend:1337/api/projects?status=published", got)
}

func TestFetchDecodesEnvelope(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{
		"data": [{"title": "A", "slug": "a"}],
		"meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 3, "total": 51}}
	}`)
	c := newTestClient(t, srv.URL)

	env, err := Fetch[[]Project](context.Background(), c, "/projects", map[string]string{"sort": "date:desc"})
	require.NoError(t, err)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "a", env.Data[0].Slug)
	require.NotNil(t, env.Meta.Pagination)
	assert.Equal(t, 51, env.Meta.Pagination.Total)
	assert.Equal(t, 3, env.Meta.Pagination.PageCount)

	req := srv.last(t)
	assert.Equal(t, "/api/projects", req.Path)
	assert.Equal(t, "date:desc", req.Query().Get("sort"))
}

func TestFetchSendsAPIToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data": null, "meta": {}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithAPIToken("secret"))
	_, err := c.GetHomepage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
}

func TestFetchNon2xxReturnsRequestError(t *testing.T) {
	srv := newRecordingServer(t, http.StatusInternalServerError, `{"error": "boom"}`)
	c := newTestClient(t, srv.URL)

	_, err := Fetch[[]Project](context.Background(), c, "/projects", nil)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Equal(t, "Internal Server Error", reqErr.Status)
	assert.Equal(t, "/projects", reqErr.Path)
}

func TestFetchMalformedBodyReturnsParseError(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `<html>not json</html>`)
	c := newTestClient(t, srv.URL)

	_, err := Fetch[[]Project](context.Background(), c, "/projects", nil)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "/projects", parseErr.Path)
	assert.Error(t, errors.Unwrap(parseErr))
}

type failingTransport struct{ err error }

func (f failingTransport) Get(context.Context, string, map[string]string) (httpclient.Response, error) {
	return nil, f.err
}

func TestFetchTransportErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	c := newTestClient(t, "http://backend", WithHTTPClient(failingTransport{err: boom}))

	_, err := c.ListProjects(context.Background(), 0)
	require.ErrorIs(t, err, boom)

	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr))
}

type debugRecorder struct{ msgs []string }

func (d *debugRecorder) DebugObj(msg, _ string, _ interface{}) { d.msgs = append(d.msgs, msg) }

func TestFetchLogsEachRequest(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, `{"data": [], "meta": {}}`)
	rec := &debugRecorder{}
	c := newTestClient(t, srv.URL, WithLogger(rec))

	_, err := c.ListProjects(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"cms request"}, rec.msgs)
}
