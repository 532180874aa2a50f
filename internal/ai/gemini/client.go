package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/carewise/triage-api/pkg/circuitbreaker"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Google Generative Language API with a text prompt and
// returns the first candidate's text completion. It implements
// ai.Generator.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
}

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "gemini",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
	})

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cb: cb,
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate requests a single completion for the prompt. Any non-2xx
// status, transport failure or empty candidate list is returned as an
// error; the caller decides how to degrade.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := c.cb.Execute(func() error {
		var callErr error
		text, callErr = c.generate(ctx, prompt)
		return callErr
	})
	return text, err
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope generateResponse
		if jsonErr := json.Unmarshal(payload, &envelope); jsonErr == nil && envelope.Error != nil {
			return "", fmt.Errorf("gemini request failed with status %d: %s", resp.StatusCode, envelope.Error.Message)
		}
		return "", fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
	}

	var envelope generateResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	for _, candidate := range envelope.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}

	return "", errors.New("gemini response contained no text candidate")
}
