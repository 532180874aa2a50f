package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carewise/triage-api/internal/model"
)

const defaultTimeout = 60 * time.Second

// Client is a thin HTTP wrapper over the triage API. It carries the
// bearer token for the authenticated endpoints and decodes the server's
// response envelope.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login or refresh.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope matches the server's wrapped responses for the
// authenticated resource endpoints.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Analyze posts an intake request and returns whatever assessment the
// server produced, fallback included. The server answers 200 for every
// analyzable request, so any non-200 here is a caller-input error and
// its message is surfaced as-is.
func (c *Client) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.TriageAssessment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("analyze rejected: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("analyze returned unexpected status %d", resp.StatusCode)
	}

	var assessment model.TriageAssessment
	if err := json.NewDecoder(resp.Body).Decode(&assessment); err != nil {
		return nil, fmt.Errorf("failed to decode assessment: %w", err)
	}
	return &assessment, nil
}

// SaveCase persists a pending case. The server creates the patient and
// the case in one transaction, so a returned error means nothing was
// written.
func (c *Client) SaveCase(ctx context.Context, req *model.CreateCaseRequest) (*model.Case, error) {
	var saved model.Case
	if err := c.doJSON(ctx, http.MethodPost, "/cases", req, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListPatients fetches the full patient roster.
func (c *Client) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	var patients []*model.Patient
	if err := c.doJSON(ctx, http.MethodGet, "/patients", nil, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// Login authenticates and stores the returned access token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	req := &model.LoginRequest{Email: email, Password: password}
	var tokens model.TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &tokens); err != nil {
		return nil, err
	}
	c.token = tokens.AccessToken
	return &tokens, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 || env.Status == "error" {
		if env.Message != "" {
			return fmt.Errorf("server error: %s", env.Message)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
