// Package rubrik owns the authenticated session against the Rubrik REST API.
// The session (an HTTP client with a cookie jar) and the login token are a
// unit: both are created by a successful login and both are discarded
// together when any call fails, so the next cycle re-authenticates from
// scratch. The client is driven from the single poll loop and is not safe
// for concurrent use.
package rubrik

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/rs/zerolog/log"

	"rubrik-monitor-backend/config"
	"rubrik-monitor-backend/internal/dto"
)

const loginPath = "/api/v1/login"

type Client struct {
	baseURL  string
	username string
	password string
	timeout  time.Duration

	session *http.Client
	token   string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:  cfg.Rubrik.URL,
		username: cfg.Rubrik.Username,
		password: cfg.Rubrik.Password,
		timeout:  cfg.Rubrik.Timeout,
	}
}

// EnsureToken returns the cached login token, performing a login call first
// if none is held. On any failure nothing is cached, so the next call
// attempts a fresh login.
func (c *Client) EnsureToken(ctx context.Context) (string, error) {
	if c.token != "" && c.session != nil {
		return c.token, nil
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("create cookie jar: %w", err)}
	}
	// The jar persists the JSESSIONID cookie so subsequent queries reuse the
	// appliance session. Appliances ship self-signed certificates, so
	// certificate verification is disabled.
	session := &http.Client{
		Timeout: c.timeout,
		Jar:     jar,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	body, err := json.Marshal(dto.LoginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("marshal login request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("create login request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := session.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", c.baseURL+loginPath).Msg("Error making login request")
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	var lr dto.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", &AuthError{Err: fmt.Errorf("decode login response: %w", err)}
	}
	if lr.Token == "" {
		return "", &AuthError{Message: lr.Message}
	}

	// Session and token are cached together, only on success.
	c.session = session
	c.token = lr.Token
	return c.token, nil
}

// Invalidate discards the session and token together. Idempotent; called by
// the poll cycle whenever any downstream query fails.
func (c *Client) Invalidate() {
	c.session = nil
	c.token = ""
}

// Get issues an authenticated GET against the given API path and decodes the
// JSON response into out. The token is presented Basic-Auth style with an
// empty password. Any transport error, non-200 status or decode failure is
// returned as a *QueryError naming the endpoint.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	if c.session == nil || c.token == "" {
		return &QueryError{Endpoint: path, Err: fmt.Errorf("no authenticated session")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &QueryError{Endpoint: path, Err: err}
	}
	req.SetBasicAuth(c.token, "")
	req.Header.Set("Content-Type", "application/json, charset=utf-8")

	resp, err := c.session.Do(req)
	if err != nil {
		return &QueryError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &QueryError{Endpoint: path, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &QueryError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &QueryError{Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
