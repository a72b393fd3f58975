package websession

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsearch/internal/notice"
)

func newTestServer(t *testing.T, m *Manager) (*httptest.Server, *http.Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/flash", func(w http.ResponseWriter, r *http.Request) {
		m.Flash(r.Context(), notice.New(notice.Warning, r.URL.Query().Get("msg")))
	})
	mux.HandleFunc("/pop", func(w http.ResponseWriter, r *http.Request) {
		n, ok := m.PopFlash(r.Context())
		if !ok {
			_, _ = io.WriteString(w, "-")
			return
		}
		_, _ = io.WriteString(w, string(n.Kind)+":"+n.Message)
	})
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		st := m.State(r.Context())
		_, _ = io.WriteString(w, string(st.Tab()))
	})

	srv := httptest.NewServer(m.LoadAndSave(mux))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, url string) string {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestFlash_PoppedOnce(t *testing.T) {
	m := New(Options{CookieName: "test_session"})
	srv, c := newTestServer(t, m)

	get(t, c, srv.URL+"/flash?msg=hello")
	assert.Equal(t, "warning:hello", get(t, c, srv.URL+"/pop"))
	assert.Equal(t, "-", get(t, c, srv.URL+"/pop"))
}

func TestFlash_ExpiredDropped(t *testing.T) {
	m := New(Options{})
	srv, c := newTestServer(t, m)

	get(t, c, srv.URL+"/flash?msg=old")
	m.now = func() time.Time { return time.Now().Add(notice.Lifetime + time.Second) }
	assert.Equal(t, "-", get(t, c, srv.URL+"/pop"))
}

func TestFlash_EmptyIgnored(t *testing.T) {
	m := New(Options{})
	srv, c := newTestServer(t, m)

	get(t, c, srv.URL+"/flash?msg=")
	assert.Equal(t, "-", get(t, c, srv.URL+"/pop"))
}

func TestState_StableAcrossRequests(t *testing.T) {
	m := New(Options{})
	srv, c := newTestServer(t, m)

	assert.Equal(t, "multiple-source", get(t, c, srv.URL+"/state"))
	get(t, c, srv.URL+"/state")
	assert.Equal(t, 1, m.States.Len())

	// A second browser gets its own state.
	_, other := newTestServer(t, m)
	get(t, other, srv.URL+"/state")
	assert.Equal(t, 2, m.States.Len())
}

func TestNew_CookieOptions(t *testing.T) {
	m := New(Options{Lifetime: time.Minute, CookieName: "x", Secure: true})
	assert.Equal(t, time.Minute, m.Sessions.Lifetime)
	assert.Equal(t, "x", m.Sessions.Cookie.Name)
	assert.True(t, m.Sessions.Cookie.HttpOnly)
	assert.True(t, m.Sessions.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, m.Sessions.Cookie.SameSite)
}
