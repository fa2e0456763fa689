// Package ankiconnect implements the NoteStore interface over the
// AnkiConnect HTTP protocol (version 6): JSON request/response pairs
// keyed by an action name, POSTed to a local service.
package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/ankitidy/core"
)

const (
	protocolVersion = 6

	// DefaultURL is the address AnkiConnect listens on out of the box.
	DefaultURL = "http://localhost:8765"

	// DefaultTimeout bounds every request so a hung service cannot
	// stall an invocation indefinitely.
	DefaultTimeout = 30 * time.Second
)

// Error is an application-level failure reported by AnkiConnect in its
// response body, as distinct from a transport failure reaching it.
type Error struct {
	Action  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ankiconnect: %s: %s", e.Action, e.Message)
}

// Client talks to a local AnkiConnect service.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ core.NoteStore = (*Client)(nil)

// New creates a Client for the given base URL. Zero values fall back
// to DefaultURL and DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// request is the AnkiConnect envelope for one action. It doubles as
// the element type for the "multi" action's sub-requests.
type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

// invoke POSTs one action and decodes its result into out (out may be
// nil for actions with no useful result). A non-null "error" field in
// the response body becomes an *Error; anything preventing a decoded
// response is returned as a wrapped transport error.
func (c *Client) invoke(ctx context.Context, action string, params any, out any) error {
	body, err := json.Marshal(request{Action: action, Version: protocolVersion, Params: params})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("ankiconnect request", "action", action, "url", c.baseURL)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("calling %s: unexpected status %d: %s", action, resp.StatusCode, b)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *string         `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	if envelope.Error != nil {
		return &Error{Action: action, Message: *envelope.Error}
	}

	if out != nil && len(envelope.Result) > 0 && !bytes.Equal(envelope.Result, []byte("null")) {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", action, err)
		}
	}
	return nil
}

// FindNotes returns the IDs of notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.invoke(ctx, "findNotes", map[string]string{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo returns field contents for the given note IDs in one call.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]core.Note, error) {
	var notes []core.Note
	if err := c.invoke(ctx, "notesInfo", map[string]any{"notes": ids}, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNotes submits all staged rewrites as one "multi" call wrapping
// an updateNoteFields sub-action per note, so the whole batch is a
// single request regardless of size.
func (c *Client) UpdateNotes(ctx context.Context, updates []core.NoteUpdate) error {
	actions := make([]request, 0, len(updates))
	for _, u := range updates {
		actions = append(actions, request{
			Action:  "updateNoteFields",
			Version: protocolVersion,
			Params: map[string]any{
				"note": map[string]any{"id": u.ID, "fields": u.Fields},
			},
		})
	}

	var results []json.RawMessage
	if err := c.invoke(ctx, "multi", map[string]any{"actions": actions}, &results); err != nil {
		return err
	}

	// Sub-action failures surface inside the multi result, not in the
	// outer envelope.
	for _, raw := range results {
		var sub struct {
			Error *string `json:"error"`
		}
		if err := json.Unmarshal(raw, &sub); err != nil {
			continue // null or scalar sub-result
		}
		if sub.Error != nil {
			return &Error{Action: "updateNoteFields", Message: *sub.Error}
		}
	}
	return nil
}

// DeckNames lists the decks known to the store.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}
