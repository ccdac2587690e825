package auth

import (
	"context"

	"todo-web/internal/api"
	"todo-web/models"
)

// AuthService signs users in and registers accounts against the remote
// API. It runs over the anonymous client: no bearer token is attached
// to either call.
type AuthService struct {
	client *api.Client
}

func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginContent struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login exchanges credentials for a bearer token and the user profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var content loginContent
	err := s.client.Post(ctx, "/login", Credentials{Email: email, Password: password}, &content)
	if err != nil {
		return "", nil, err
	}
	return content.Token, &content.User, nil
}

// Register creates an account. It does not sign the user in; the caller
// sends them to the login form afterwards.
func (s *AuthService) Register(ctx context.Context, reg Registration) error {
	return s.client.Post(ctx, "/register", reg, nil)
}
