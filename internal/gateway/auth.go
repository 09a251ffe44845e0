package gateway

import (
	"context"
	"net/http"
)

// Token is a confirmed authentication grant from the service.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, email, name, password string) (Token, error) {
	var token Token
	body := registerRequest{Email: email, Name: name, Password: password}
	if err := c.do(ctx, "register", http.MethodPost, "/api/auth/register", body, &token); err != nil {
		return Token{}, err
	}
	return token, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	var token Token
	body := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", body, &token); err != nil {
		return Token{}, err
	}
	return token, nil
}
