package session

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/sessions"

	"todo-web/models"
)

const (
	cookieName = "todo-session"

	keyToken = "token"
	keyUser  = "user"
)

func init() {
	gob.Register(Flash{})
}

// Session is the signed-in identity hydrated from the cookie. Both
// fields are absent for anonymous visitors.
type Session struct {
	Token string
	User  *models.User
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Flash is a one-shot notice rendered on the next page load.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// Store keeps the token and user profile in an authenticated cookie.
// The cookie is the durable storage: exactly two values, written
// together on login and cleared together on logout.
type Store struct {
	cookies *sessions.CookieStore
}

func NewStore(secret []byte) *Store {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	return &Store{cookies: store}
}

// Load hydrates the session from the request cookie. It never fails: a
// missing, corrupt or tampered cookie and an expired token all hydrate
// as the anonymous session.
func (s *Store) Load(r *http.Request) Session {
	cookie, err := s.cookies.Get(r, cookieName)
	if err != nil {
		return Session{}
	}

	token, _ := cookie.Values[keyToken].(string)
	if token == "" || tokenExpired(token) {
		return Session{}
	}

	raw, _ := cookie.Values[keyUser].(string)
	if raw == "" {
		return Session{}
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return Session{}
	}

	return Session{Token: token, User: &user}
}

// Save writes token and user together after a successful login.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	cookie, _ := s.cookies.Get(r, cookieName)
	cookie.Values[keyToken] = token
	cookie.Values[keyUser] = string(raw)
	return cookie.Save(r, w)
}

// Clear drops both values and expires the cookie in one write, so no
// partially cleared session is ever observable.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	cookie, _ := s.cookies.Get(r, cookieName)
	cookie.Values = make(map[interface{}]interface{})
	cookie.Options.MaxAge = -1
	return cookie.Save(r, w)
}

// ClearWithNotice drops the signed-in identity and queues a notice in
// the same cookie write, for forced sign-outs (expired or rejected
// tokens).
func (s *Store) ClearWithNotice(w http.ResponseWriter, r *http.Request, kind, message string) error {
	cookie, _ := s.cookies.Get(r, cookieName)
	cookie.Values = make(map[interface{}]interface{})
	cookie.AddFlash(Flash{Kind: kind, Message: message})
	return cookie.Save(r, w)
}

// AddFlash queues a one-shot notice for the next rendered page.
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	cookie, _ := s.cookies.Get(r, cookieName)
	cookie.AddFlash(Flash{Kind: kind, Message: message})
	_ = cookie.Save(r, w)
}

// Flashes drains queued notices, persisting the removal.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, err := s.cookies.Get(r, cookieName)
	if err != nil {
		return nil
	}
	raw := cookie.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = cookie.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}

// tokenExpired inspects the token's claims without verifying the
// signature (the signing key lives server-side). Tokens that are not
// JWTs at all are treated as live; the server is the authority either
// way, this only keeps visibly stale cookies from acting signed-in.
func tokenExpired(token string) bool {
	claims := &jwt.StandardClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == 0 {
		return false
	}
	return !claims.VerifyExpiresAt(time.Now().Unix(), true)
}

type contextKey struct{}

// NewContext stashes the hydrated session for downstream handlers and
// the authenticated API client.
func NewContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok
}

// ContextTokens sources bearer tokens from the request context, reading
// the current value at call time.
type ContextTokens struct{}

func (ContextTokens) Token(ctx context.Context) (string, bool) {
	sess, ok := FromContext(ctx)
	if !ok || sess.Token == "" {
		return "", false
	}
	return sess.Token, true
}
