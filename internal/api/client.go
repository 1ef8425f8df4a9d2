// Package api implements the HTTP client for the meeting-tracker backend.
//
// The client is a thin transport wrapper: every operation is one request
// against the contract (POST /transcripts, GET /transcripts, POST /items,
// PATCH /items/{id}, DELETE /items/{id}, GET /status) followed by strict
// decoding of the response. There are no retries; every failure is terminal
// for the operation that issued it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tracker-cli/internal/model"
)

// Error carries the HTTP status and, when the server supplied one, its
// human-readable detail message for surfacing to the user.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Detail) != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
}

// Client issues requests against a single base URL resolved at construction.
type Client struct {
	base string
	http *http.Client
	log  zerolog.Logger
}

// New returns a Client bound to baseURL. A zero timeout disables the bound.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		base: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// BaseURL returns the origin the client is bound to.
func (c *Client) BaseURL() string { return c.base }

// ItemPatch is a partial update for an action item. Nil fields are omitted
// from the request body, so the server only sees what the user changed.
type ItemPatch struct {
	Task    *string `json:"task,omitempty"`
	Owner   *string `json:"owner,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
	Tags    *string `json:"tags,omitempty"`
	Done    *bool   `json:"done,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p ItemPatch) Empty() bool {
	return p.Task == nil && p.Owner == nil && p.DueDate == nil && p.Tags == nil && p.Done == nil
}

// NewItem is the body for manual item creation.
type NewItem struct {
	Task         string `json:"task"`
	Owner        string `json:"owner,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
	Tags         string `json:"tags,omitempty"`
	TranscriptID string `json:"transcript_id"`
}

// CreateTranscript submits raw transcript text for extraction and returns the
// new transcript id plus the extracted items.
func (c *Client) CreateTranscript(ctx context.Context, content string) (model.ExtractResult, error) {
	var out model.ExtractResult
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/transcripts", body, &out); err != nil {
		return model.ExtractResult{}, err
	}
	if strings.TrimSpace(out.TranscriptID) == "" {
		return model.ExtractResult{}, fmt.Errorf("transcript response missing transcript_id")
	}
	for i, it := range out.ActionItems {
		if err := validateItem(it); err != nil {
			return model.ExtractResult{}, fmt.Errorf("action item %d: %w", i, err)
		}
	}
	return out, nil
}

// ListTranscripts fetches the recent transcripts. Ordering and truncation are
// server-determined; the client does no re-sorting or re-limiting.
func (c *Client) ListTranscripts(ctx context.Context) ([]model.Transcript, error) {
	var out []model.Transcript
	if err := c.do(ctx, http.MethodGet, "/transcripts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateItem creates one manual action item attached to a transcript.
func (c *Client) CreateItem(ctx context.Context, item NewItem) (model.ActionItem, error) {
	if strings.TrimSpace(item.Task) == "" {
		return model.ActionItem{}, fmt.Errorf("task is required")
	}
	var out model.ActionItem
	if err := c.do(ctx, http.MethodPost, "/items", item, &out); err != nil {
		return model.ActionItem{}, err
	}
	if err := validateItem(out); err != nil {
		return model.ActionItem{}, err
	}
	return out, nil
}

// UpdateItem applies a partial update and returns the server's authoritative
// representation of the item.
func (c *Client) UpdateItem(ctx context.Context, id string, patch ItemPatch) (model.ActionItem, error) {
	if patch.Empty() {
		return model.ActionItem{}, fmt.Errorf("empty patch")
	}
	var out model.ActionItem
	if err := c.do(ctx, http.MethodPatch, "/items/"+id, patch, &out); err != nil {
		return model.ActionItem{}, err
	}
	if err := validateItem(out); err != nil {
		return model.ActionItem{}, err
	}
	return out, nil
}

// DeleteItem removes an item. The response body, if any, is ignored.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+id, nil, nil)
}

// Status fetches the aggregate health object keyed by subsystem name.
func (c *Client) Status(ctx context.Context) (model.ServiceStatus, error) {
	var out model.ServiceStatus
	if err := c.do(ctx, http.MethodGet, "/status", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// validateItem pins the payload shape: an item without an id or a task is a
// contract violation and fails loudly instead of being guessed at render time.
func validateItem(it model.ActionItem) error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("action item missing id")
	}
	if strings.TrimSpace(it.Task) == "" {
		return fmt.Errorf("action item %s missing task", it.ID)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	reqID := uuid.NewString()
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("request_id", reqID).Str("method", method).Str("path", path).
			Dur("elapsed", time.Since(start)).Err(err).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().Str("request_id", reqID).Str("method", method).Str("path", path).
		Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// readDetail extracts the server's `detail` message from an error body.
// Anything unparseable is ignored; the status code alone still produces a
// usable error.
func readDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Detail)
}
