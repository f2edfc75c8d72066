package sessionsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// TokenResponse is the token pair returned by the login and refresh
// endpoints.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// PerfilPatch is a partial profile update. Empty fields are left untouched.
type PerfilPatch struct {
	Nombre   string `json:"nombre,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// AuthClient is the token-exchange collaborator the Manager talks to. The
// HTTP implementation below is the real one; tests substitute their own.
type AuthClient interface {
	Login(ctx context.Context, email, password, codigoTOTP string) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	UpdatePerfil(ctx context.Context, accessToken string, patch PerfilPatch) error
}

// APIError is a structured error response from the backend.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Client is the HTTP implementation of AuthClient against a SIGED backend.
// The cookie jar keeps the siged_session cookie the server sets on login,
// so requests through this client carry the same perimeter marker a browser
// would.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an auth client for the given base URL.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	CodigoTOTP string `json:"codigo_totp,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password, codigoTOTP string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", "",
		loginRequest{Email: email, Password: password, CodigoTOTP: codigoTOTP}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a fresh pair. The old refresh token
// is revoked server-side (rotation), so the caller must store the new one.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", "",
		refreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the refresh token and clears the session cookie.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/logout", "",
		refreshRequest{RefreshToken: refreshToken}, nil)
}

// UpdatePerfil applies a partial update to the authenticated user's profile.
func (c *Client) UpdatePerfil(ctx context.Context, accessToken string, patch PerfilPatch) error {
	return c.doJSON(ctx, http.MethodPatch, "/v1/perfil", accessToken, patch, nil)
}

// doJSON performs a JSON request/response cycle. Non-2xx responses are
// returned as *APIError when the body carries the standard error shape.
func (c *Client) doJSON(ctx context.Context, method, path, accessToken string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sessionsdk: encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, buf)
	if err != nil {
		return fmt.Errorf("sessionsdk: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sessionsdk: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = "unexpected_status"
			apiErr.Description = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("sessionsdk: decode response: %w", err)
		}
	}
	return nil
}
