// Package api is the REST client for the FocusHub backend. Requests run
// through the retry mechanism so transient failures are absorbed before the
// caller sees an error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/focushub/focushub/achievement"
	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/project"
	"github.com/focushub/focushub/retry"
)

// Client calls the backend over HTTP. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	apiRetrier        *retry.Retrier
	backgroundRetrier *retry.Retrier
}

// NewClient returns a client for the backend at baseURL. An optional
// transport (such as the caching gateway) may be supplied; nil uses the
// default.
func NewClient(baseURL string, transport http.RoundTripper) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		apiRetrier:        retry.New(retry.APIPreset()),
		backgroundRetrier: retry.New(retry.BackgroundPreset()),
	}
}

// SetToken installs the bearer token used on authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the identity and token issued on login or
// registration.
type LoginResponse struct {
	User  models.User  `json:"user"`
	Token models.Token `json:"token"`
}

// Login exchanges credentials for an identity and token.
func (c *Client) Login(
	ctx context.Context,
	username, password string,
) (*LoginResponse, error) {
	return retry.Do(ctx, c.apiRetrier, func() (*LoginResponse, error) {
		var resp LoginResponse

		err := c.post(ctx, "/api/auth/login", loginRequest{
			Username: username,
			Password: password,
		}, &resp)
		if err != nil {
			return nil, err
		}

		return &resp, nil
	})
}

// Register creates an account and logs it in.
func (c *Client) Register(
	ctx context.Context,
	username, email, password string,
) (*LoginResponse, error) {
	return retry.Do(ctx, c.apiRetrier, func() (*LoginResponse, error) {
		var resp LoginResponse

		err := c.post(ctx, "/api/auth/register", registerRequest{
			Username: username,
			Email:    email,
			Password: password,
		}, &resp)
		if err != nil {
			return nil, err
		}

		return &resp, nil
	})
}

// Stats fetches the account's aggregate stats.
func (c *Client) Stats(ctx context.Context) (*models.UserStats, error) {
	return retry.Do(ctx, c.apiRetrier, func() (*models.UserStats, error) {
		var stats models.UserStats

		err := c.get(ctx, "/api/user/stats", &stats)
		if err != nil {
			return nil, err
		}

		return &stats, nil
	})
}

// Leaderboard fetches the current ranking of opted-in users.
func (c *Client) Leaderboard(
	ctx context.Context,
) ([]achievement.LeaderboardEntry, error) {
	return retry.Do(
		ctx,
		c.apiRetrier,
		func() ([]achievement.LeaderboardEntry, error) {
			var entries []achievement.LeaderboardEntry

			err := c.get(ctx, "/api/leaderboard", &entries)
			if err != nil {
				return nil, err
			}

			return entries, nil
		},
	)
}

// Projects fetches the account's projects. Collections are not persisted
// locally, so this runs on every start of a project view.
func (c *Client) Projects(ctx context.Context) ([]project.Project, error) {
	return retry.Do(ctx, c.apiRetrier, func() ([]project.Project, error) {
		var projects []project.Project

		err := c.get(ctx, "/api/projects", &projects)
		if err != nil {
			return nil, err
		}

		return projects, nil
	})
}

// Achievements fetches the achievement catalog with the account's unlock
// state.
func (c *Client) Achievements(
	ctx context.Context,
) ([]achievement.Achievement, error) {
	return retry.Do(
		ctx,
		c.apiRetrier,
		func() ([]achievement.Achievement, error) {
			var list []achievement.Achievement

			err := c.get(ctx, "/api/achievements", &list)
			if err != nil {
				return nil, err
			}

			return list, nil
		},
	)
}

type pushPayload struct {
	Data []models.PendingSync `json:"data"`
}

// PushSessions uploads queued offline session records. It retries silently
// since the durable queue makes a failed push harmless.
func (c *Client) PushSessions(
	ctx context.Context,
	items []models.PendingSync,
) error {
	_, err := retry.Do(ctx, c.backgroundRetrier, func() (struct{}, error) {
		return struct{}{}, c.post(ctx, "/api/timer/sync", pushPayload{Data: items}, nil)
	})

	return err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body io.Reader,
	out any,
) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("unable to decode response: %w", err)
	}

	return nil
}
