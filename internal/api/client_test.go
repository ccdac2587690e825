package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token(ctx context.Context) (string, bool) {
	return string(s), s != ""
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"content":{}}`))
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, staticTokens("abc123"))
	err := client.Post(context.Background(), "/todos", map[string]string{"item": "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestClient_MissingTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer server.Close()

	// No token available: the request still goes out and the server's
	// rejection comes back as a structured error.
	client := NewAuthClient(server.URL, staticTokens(""))
	err := client.Get(context.Background(), "/todos", nil, nil)

	assert.True(t, called)
	assert.Empty(t, gotAuth)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_AnonymousNeverAttachesToken(t *testing.T) {
	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"content":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Post(context.Background(), "/login", map[string]string{}, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_DecodesContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":{"token":"tok","name":"Ada"}}`))
	}))
	defer server.Close()

	var out struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	client := NewClient(server.URL)
	require.NoError(t, client.Get(context.Background(), "/whoami", nil, &out))
	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, "Ada", out.Name)
}

func TestClient_StructuredErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Email already registered"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Post(context.Background(), "/register", map[string]string{}, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Email already registered", apiErr.Message)
}

func TestClient_UndecodableErrorBodyStillStructured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "/todos", nil, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

func TestClient_TransportErrorPropagates(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	err := client.Get(context.Background(), "/todos", nil, nil)

	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}

func TestUserMessage(t *testing.T) {
	structured := &Error{StatusCode: 400, Message: "Item is required"}
	assert.Equal(t, "Item is required", UserMessage(structured, "generic"))

	blank := &Error{StatusCode: 500}
	assert.Equal(t, "generic", UserMessage(blank, "generic"))

	assert.Equal(t, "generic", UserMessage(errors.New("connection refused"), "generic"))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&Error{StatusCode: 401}))
	assert.False(t, IsUnauthorized(&Error{StatusCode: 400}))
	assert.False(t, IsUnauthorized(errors.New("nope")))
}
