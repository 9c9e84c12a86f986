package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Session signs in against the API and loads the dashboard bootstrap
type Session struct {
	baseURL *url.URL
	api     *AjaxClient
}

// NewSession creates a session for the API at baseURL, e.g.
// "http://localhost:8080/api/v1"
func NewSession(baseURL string, opts ...AjaxOption) (*Session, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("client: invalid base url: %w", err)
	}
	return &Session{baseURL: u, api: NewAjaxClient("", opts...)}, nil
}

// Login exchanges credentials for a session token. Later calls carry it.
func (s *Session) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.resolve("auth/login"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Token struct {
			AccessToken string `json:"access_token"`
		} `json:"token"`
	}
	if err := s.api.do(req, &out); err != nil {
		return err
	}
	s.api.token = out.Token.AccessToken
	return nil
}

// Token returns the current session token
func (s *Session) Token() string {
	return s.api.token
}

// LoadConfig fetches the dashboard bootstrap and turns it into a controller
// configuration
func (s *Session) LoadConfig(ctx context.Context) (Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.resolve("vendor/dashboard"), nil)
	if err != nil {
		return Config{}, fmt.Errorf("client: failed to build request: %w", err)
	}

	var out struct {
		AjaxURL string            `json:"ajaxUrl"`
		Nonces  map[string]string `json:"nonces"`
	}
	if err := s.api.do(req, &out); err != nil {
		return Config{}, err
	}

	ajaxURL, err := s.baseURL.Parse(out.AjaxURL)
	if err != nil {
		return Config{}, fmt.Errorf("client: invalid ajax url %q: %w", out.AjaxURL, err)
	}
	return Config{
		AjaxURL:   ajaxURL.String(),
		Nonce:     out.Nonces[ActionDuplicate],
		ListNonce: out.Nonces[ActionFetchList],
		Token:     s.api.token,
	}, nil
}

func (s *Session) resolve(path string) string {
	return s.baseURL.ResolveReference(&url.URL{Path: path}).String()
}
