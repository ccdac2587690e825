package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TokenSource yields the current bearer token at call time. Reading at
// call time (instead of caching at construction) keeps the client in
// sync with whatever session the current request carries.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Client talks JSON to the remote todo API. The anonymous variant is
// used for login/register; the authenticated variant attaches a bearer
// token to every request when one is available. A missing token is not
// an error here: the request goes out unauthenticated and the server
// rejects it.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
}

func NewAuthClient(baseURL string, tokens TokenSource) *Client {
	c := NewClient(baseURL)
	c.tokens = tokens
	return c
}

// envelope is the API's uniform response shape. Success payloads live
// under content; error responses carry a human-readable message.
type envelope struct {
	Content json.RawMessage `json:"content"`
	Message string          `json:"message"`
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, body interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, decodeErr)
	}
	if len(env.Content) == 0 {
		return fmt.Errorf("decoding %s %s response: empty content", method, path)
	}
	if err := json.Unmarshal(env.Content, out); err != nil {
		return fmt.Errorf("decoding %s %s content: %w", method, path, err)
	}
	return nil
}
