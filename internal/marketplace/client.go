// Package marketplace implements the authenticated REST client for the
// collabhub backend API. It covers only the endpoints the dashboard
// consumes: the current-user profile, the caller's posted jobs, and the
// phone/email OTP verification actions.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"collabhub/dashboard-service/internal/jobs"
)

const httpTimeout = 15 * time.Second

// Client issues requests against the backend API base URL, forwarding the
// caller's bearer token on every request.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient constructs a Client with a shared HTTP client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// jobsResponse mirrors the top-level GET /jobs/my-jobs response.
type jobsResponse struct {
	Jobs []jobs.RawJob `json:"jobs"`
}

// otpRequest is the body for the verify-otp endpoints.
type otpRequest struct {
	OTP string `json:"otp"`
}

// Me fetches the current user via GET /auth/me.
func (c *Client) Me(ctx context.Context, token string) (jobs.User, error) {
	var u jobs.User
	if err := c.do(ctx, token, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return jobs.User{}, fmt.Errorf("fetch current user: %w", err)
	}
	return u, nil
}

// MyJobs fetches the jobs posted by employerID, filtered by status.
func (c *Client) MyJobs(ctx context.Context, token string, employerID int, status jobs.Status) ([]jobs.RawJob, error) {
	params := url.Values{}
	params.Set("status", string(status))
	path := fmt.Sprintf("/jobs/my-jobs/%d?%s", employerID, params.Encode())

	var resp jobsResponse
	if err := c.do(ctx, token, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch jobs for employer %d: %w", employerID, err)
	}
	return resp.Jobs, nil
}

// SendOTP asks the backend to send a one-time code over the given channel
// ("phone" or "email").
func (c *Client) SendOTP(ctx context.Context, token, channel string) error {
	path := fmt.Sprintf("/verification/%s/send-otp", url.PathEscape(channel))
	if err := c.do(ctx, token, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("send %s otp: %w", channel, err)
	}
	return nil
}

// VerifyOTP submits a one-time code for the given channel.
func (c *Client) VerifyOTP(ctx context.Context, token, channel, code string) error {
	path := fmt.Sprintf("/verification/%s/verify-otp", url.PathEscape(channel))
	if err := c.do(ctx, token, http.MethodPost, path, otpRequest{OTP: code}, nil); err != nil {
		return fmt.Errorf("verify %s otp: %w", channel, err)
	}
	return nil
}

// do builds, sends and decodes one API request. Non-2xx responses return
// an error carrying the status code and response body.
func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http %s: %w", method, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(b))
	}

	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("json unmarshal: %w", err)
		}
	}
	return nil
}
