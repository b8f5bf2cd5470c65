package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/movers-solution/movers/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("backend reported no active session")
	ErrConflict           = errors.New("account already exists")
)

// APIError is a non-success response carrying the backend's message
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend request failed (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match a 409 with errors.Is(err, ErrConflict)
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusConflict {
		return ErrConflict
	}
	return nil
}

// Client talks to the auth backend
type Client struct {
	http *resty.Client
}

// New creates a backend client. Cookies are never shared between calls:
// each login carries its own backend cookies from /login to /check_session.
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetCookieJar(nil)

	return &Client{http: c}
}

// SetTransport replaces the underlying round tripper
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.http.SetTransport(rt)
}

// Logout asks the backend to end its session with DELETE /logout.
// Only a 2xx status is success; the response body is ignored.
func (c *Client) Logout(ctx context.Context) Result {
	if ctx == nil {
		return Result{Outcome: Fatal, Err: errors.New("nil context")}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/logout")
	if err != nil {
		return Result{
			Outcome: classifyTransport(ctx, err),
			Err:     fmt.Errorf("failed to send logout request: %w", err),
		}
	}

	status := resp.StatusCode()
	if outcome := classifyStatus(status); outcome != Success {
		return Result{
			Outcome:    outcome,
			StatusCode: status,
			Err:        fmt.Errorf("logout failed (status %d): %s", status, errorMessage(resp)),
		}
	}

	return Result{Outcome: Success, StatusCode: status}
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend and returns the user it reports
// from /check_session
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(LoginRequest{Email: email, Password: password}).
		Post("/login")
	if err != nil {
		return session.Empty(), fmt.Errorf("failed to send login request: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return session.Empty(), ErrInvalidCredentials
	case !resp.IsSuccess():
		return session.Empty(), &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
	}

	// Some backends return the user directly from /login
	if u, ok := decodeUser(resp.Body()); ok {
		return u.session(), nil
	}

	return c.checkSession(ctx, resp.Cookies())
}

func (c *Client) checkSession(ctx context.Context, cookies []*http.Cookie) (session.Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetCookies(cookies).
		Get("/check_session")
	if err != nil {
		return session.Empty(), fmt.Errorf("failed to send check_session request: %w", err)
	}

	if resp.StatusCode() == http.StatusNoContent {
		return session.Empty(), ErrNoSession
	}
	if !resp.IsSuccess() {
		return session.Empty(), &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
	}

	u, ok := decodeUser(resp.Body())
	if !ok {
		return session.Empty(), ErrNoSession
	}
	return u.session(), nil
}

// SignupRequest is the body of POST /signup
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup registers a new account and returns it as a session
func (c *Client) Signup(ctx context.Context, req SignupRequest) (session.Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/signup")
	if err != nil {
		return session.Empty(), fmt.Errorf("failed to send signup request: %w", err)
	}

	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return session.Empty(), &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
	}

	u, ok := decodeUser(resp.Body())
	if !ok {
		return session.Empty(), fmt.Errorf("failed to decode signup response")
	}
	return u.session(), nil
}

// userID accepts both numeric and string IDs
type userID string

func (id *userID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = userID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid user id %s", data)
	}
	*id = userID(n.String())
	return nil
}

type userPayload struct {
	ID       userID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u userPayload) session() session.Session {
	return session.New(string(u.ID), u.Username, u.Email, session.Role(u.Role))
}

func decodeUser(body []byte) (userPayload, bool) {
	var u userPayload
	if len(bytes.TrimSpace(body)) == 0 {
		return u, false
	}
	if err := json.Unmarshal(body, &u); err != nil {
		return u, false
	}
	return u, u.ID != ""
}

func errorMessage(resp *resty.Response) string {
	var body struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Msg != "" {
			return body.Msg
		}
	}
	if s := strings.TrimSpace(resp.String()); s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode())
}
