package testutils

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Browser drives the web app the way a browser would: it keeps cookies
// across requests and does not follow redirects, so tests can assert on
// the redirect target itself.
type Browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func NewBrowser(t *testing.T, server *httptest.Server) *Browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &Browser{
		t:    t,
		base: server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *Browser) GET(path string) *http.Response {
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return resp
}

func (b *Browser) PostForm(path string, form url.Values) *http.Response {
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return resp
}

// Submit follows one redirect hop after a form post, mirroring the
// post/redirect/get cycle of the app.
func (b *Browser) Submit(path string, form url.Values) *http.Response {
	resp := b.PostForm(path, form)
	resp.Body.Close()
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode, "expected a redirect after posting to %s", path)
	return b.GET(resp.Header.Get("Location"))
}

func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// AssertRedirect closes the response and checks it sends the browser to
// the given location.
func AssertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), location),
		"expected redirect to %s, got %s", location, resp.Header.Get("Location"))
}
