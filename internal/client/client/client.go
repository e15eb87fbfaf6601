package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// HTTPClient is a cookie-keeping client for the quiz API.
type HTTPClient struct {
	base *url.URL
	http *http.Client
}

func New(serverURL string, timeout time.Duration) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("server url %q: scheme and host required", serverURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		base: base,
		http: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Register creates an account and returns the server's message.
func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var res result
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *HTTPClient) Login(ctx context.Context, nickname, password string) error {
	body := map[string]string{"nickname": nickname, "password": password}
	return c.do(ctx, http.MethodPost, "/api/login", body, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

func (c *HTTPClient) LoggedIn(ctx context.Context) (bool, error) {
	var res struct {
		LoggedIn bool `json:"logged_in"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/check_session", nil, &res); err != nil {
		return false, err
	}
	return res.LoggedIn, nil
}

func (c *HTTPClient) Courses(ctx context.Context) (map[string]Course, error) {
	courses := map[string]Course{}
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *HTTPClient) Data(ctx context.Context) (*AppData, error) {
	var d AppData
	if err := c.do(ctx, http.MethodGet, "/api/data", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) Quiz(ctx context.Context, subject string) ([]Question, error) {
	var qs []Question
	if err := c.do(ctx, http.MethodGet, "/api/quiz/"+url.PathEscape(subject), nil, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (c *HTTPClient) SubmitScore(ctx context.Context, subject string, score int) error {
	body := map[string]any{"subject": subject, "score": score}
	return c.do(ctx, http.MethodPost, "/api/progress", body, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var res result
		_ = json.Unmarshal(data, &res)
		msg := res.Message
		if msg == "" {
			msg = res.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
