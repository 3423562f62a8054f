// Package hh talks to the hh.ru public API: vacancy search and the area tree.
package hh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rsilvagit/hh-export/internal/filter"
	"github.com/rsilvagit/hh-export/internal/region"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.hh.ru"

// ErrTransport marks network failures and non-success responses.
var ErrTransport = errors.New("transport error")

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode  int
	Description string
}

func (e *StatusError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("hh: unexpected status %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("hh: unexpected status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrTransport }

// Doer executes HTTP requests; *httpclient.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the API client.
type Client struct {
	http    Doer
	baseURL string
}

// NewClient creates a Client. An empty baseURL means DefaultBaseURL.
func NewClient(doer Doer, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns a human-readable identifier for this source.
func (c *Client) Name() string {
	return "hh.ru"
}

type searchResponse struct {
	Items []map[string]any `json:"items"`
	Found int              `json:"found"`
}

// Search issues one request to the vacancies resource and returns the raw items.
// A response without an items array yields no records and no error.
func (c *Client) Search(ctx context.Context, q filter.Query) ([]map[string]any, error) {
	body, err := c.get(ctx, "/vacancies?"+q.Values().Encode())
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var resp searchResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("hh: decoding vacancies: %w", err)
	}

	log.Debug().Int("items", len(resp.Items)).Int("found", resp.Found).Msg("hh: search done")
	return resp.Items, nil
}

// Areas fetches the full area tree.
func (c *Client) Areas(ctx context.Context) ([]region.Node, error) {
	body, err := c.get(ctx, "/areas")
	if err != nil {
		return nil, err
	}

	var nodes []region.Node
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, fmt.Errorf("hh: decoding areas: %w", err)
	}
	return nodes, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("hh: building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hh: executing request: %w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hh: reading response: %w: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Description: errorDescription(body)}
	}
	return body, nil
}

// errorDescription pulls the first error type out of an API error body.
func errorDescription(body []byte) string {
	var apiErr struct {
		Description string `json:"description"`
		Errors      []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &apiErr) != nil {
		return ""
	}
	if apiErr.Description != "" {
		return apiErr.Description
	}
	if len(apiErr.Errors) > 0 {
		e := apiErr.Errors[0]
		return strings.TrimSpace(e.Type + " " + e.Value)
	}
	return ""
}
