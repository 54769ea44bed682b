package autoplay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/talgya/claimrush/internal/game"
)

// Result is what the server reported after an action.
type Result struct {
	State  game.State
	Arrest *game.Arrest // set after a trial
}

// Actor performs actions via the player API.
type Actor struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewActor creates an Actor targeting the given API base URL.
func NewActor(baseURL string) *Actor {
	return &Actor{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Act sends the action. ActionNone does nothing and returns a nil Result.
func (a *Actor) Act(ctx context.Context, action Action) (*Result, error) {
	var (
		path string
		body []byte
	)
	switch action.Kind {
	case ActionNone:
		return nil, nil
	case ActionClick:
		path = "/api/v1/click"
	case ActionGolden:
		path = "/api/v1/golden"
	case ActionUpgrade:
		path = "/api/v1/upgrade/" + url.PathEscape(action.Target)
	case ActionUnlock:
		path = "/api/v1/zone/" + url.PathEscape(action.Target) + "/unlock"
	case ActionSelect:
		path = "/api/v1/zone/" + url.PathEscape(action.Target) + "/select"
	case ActionTrial:
		path = "/api/v1/trial"
		var err error
		if body, err = json.Marshal(map[string]string{"defense": action.Target}); err != nil {
			return nil, fmt.Errorf("marshal trial: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown action %q", action.Kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Path: path, Code: resp.StatusCode, Body: string(bytes.TrimSpace(respBody))}
	}

	var decoded struct {
		State  game.State   `json:"state"`
		Arrest *game.Arrest `json:"arrest"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &Result{State: decoded.State, Arrest: decoded.Arrest}, nil
}

// StatusError is a non-200 answer from the API.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("POST %s failed (%d): %s", e.Path, e.Code, e.Body)
}

// RateLimited reports whether the server asked the bot to slow down.
func (e *StatusError) RateLimited() bool {
	return e.Code == http.StatusTooManyRequests
}
