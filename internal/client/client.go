// Package client is a typed HTTP client for the Player API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/combat-tiers/internal/model"
)

// Client talks to one API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with a 30 second request timeout.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// WriteResult is the body of a successful create, update or delete.
type WriteResult struct {
	Message string        `json:"message"`
	Player  *model.Player `json:"player,omitempty"`
}

// Health is the body of GET /api/health.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		return &APIError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// ListPlayers fetches every player in server order.
func (c *Client) ListPlayers(ctx context.Context) ([]model.Player, error) {
	var out []model.Player
	if err := c.do(ctx, http.MethodGet, "/api/players", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindPlayer lists players and returns the one with the given id. The API
// has no single-player read, so edits load the record this way.
func (c *Client) FindPlayer(ctx context.Context, id int64) (*model.Player, error) {
	players, err := c.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range players {
		if players[i].ID == id {
			return &players[i], nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Message: "Player not found"}
}

// CreatePlayer submits a new player.
func (c *Client) CreatePlayer(ctx context.Context, in model.PlayerInput) (*WriteResult, error) {
	var out WriteResult
	if err := c.do(ctx, http.MethodPost, "/api/players", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePlayer replaces the editable fields of player id.
func (c *Client) UpdatePlayer(ctx context.Context, id int64, in model.PlayerInput) (*WriteResult, error) {
	var out WriteResult
	if err := c.do(ctx, http.MethodPut, playerPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePlayer removes player id.
func (c *Client) DeletePlayer(ctx context.Context, id int64) (*WriteResult, error) {
	var out WriteResult
	if err := c.do(ctx, http.MethodDelete, playerPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls the JSON health endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func playerPath(id int64) string {
	return "/api/players/" + strconv.FormatInt(id, 10)
}
