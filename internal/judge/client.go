// apps/go-client/internal/judge/client.go
//
// HTTP client for the remote judge.
// Responsibilities:
//   - GET /v1/game/{id}     → session + history (404 ⇒ game.ErrNotFound).
//   - GET /v1/game/new      → new session id and user id.
//   - GET /v1/game/submit   → hint (and answer once the game ends).
//   - Classify failures: structured {detail} bodies become *game.RejectedError;
//     everything else (dial errors, timeouts, bare 5xx, bad JSON) is returned
//     as a plain wrapped error and treated as transport failure upstream.
//
// Notes:
//   - Every request is bounded by the http.Client timeout as well as ctx.
//   - The judge does not report word length; cols comes from configuration.

package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-client/internal/game"
)

// maxBody bounds how much of any response is read.
const maxBody = 1 << 20

// Client talks to one judge.
type Client struct {
	base *url.URL
	http *http.Client
	cols int
}

// New returns a client for the judge at baseURL.
func New(baseURL string, timeout time.Duration, cols int) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("judge: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("judge: unsupported scheme %q", u.Scheme)
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}, cols: cols}, nil
}

// historyItem/gameRes mirror GET /v1/game/{id}.
type historyItem struct {
	Word string `json:"word"`
	Hint string `json:"hint"`
}
type gameRes struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	MaxRounds   int           `json:"max_rounds"`
	NumAttempts int           `json:"num_attempts"`
	IsEnd       bool          `json:"is_end"`
	Answer      string        `json:"answer"`
	History     []historyItem `json:"history"`
}

// newGameRes mirrors GET /v1/game/new.
type newGameRes struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// SubmitRes mirrors GET /v1/game/submit.
type SubmitRes struct {
	Hint   string `json:"hint"`
	Answer string `json:"answer"`
	IsEnd  bool   `json:"is_end"`
}

// errorRes is the judge's error body.
type errorRes struct {
	Detail json.RawMessage `json:"detail"`
}

// Game fetches a session and its history.
func (c *Client) Game(ctx context.Context, id string) (game.Session, []game.HistoryEntry, error) {
	var res gameRes
	status, err := c.get(ctx, "/v1/game/"+url.PathEscape(id), nil, &res)
	if status == http.StatusNotFound {
		return game.Session{}, nil, fmt.Errorf("judge: game %s: %w", id, game.ErrNotFound)
	}
	if err != nil {
		return game.Session{}, nil, fmt.Errorf("judge: get game: %w", err)
	}

	sess := game.Session{
		ID:          res.ID,
		UserID:      res.UserID,
		MaxRows:     res.MaxRounds,
		MaxCols:     c.cols,
		NumAttempts: res.NumAttempts,
		IsEnd:       res.IsEnd,
		Answer:      res.Answer,
	}
	history := make([]game.HistoryEntry, 0, len(res.History))
	for _, h := range res.History {
		history = append(history, game.HistoryEntry{Word: h.Word, Hint: h.Hint})
	}
	return sess, history, nil
}

// NewGame asks the judge for a fresh session. An empty userID lets the judge
// mint one.
func (c *Client) NewGame(ctx context.Context, mode string, attempts int, userID string) (id, uid string, err error) {
	q := url.Values{}
	q.Set("mode", mode)
	q.Set("num_attempts", strconv.Itoa(attempts))
	if userID != "" {
		q.Set("user_id", userID)
	}
	var res newGameRes
	if _, err := c.get(ctx, "/v1/game/new", q, &res); err != nil {
		return "", "", fmt.Errorf("judge: new game: %w", err)
	}
	return res.ID, res.UserID, nil
}

// Submit sends a full guess for session id. The guess must already span the
// board; nothing is sent otherwise.
func (c *Client) Submit(ctx context.Context, id, guess string) (SubmitRes, error) {
	if n := len([]rune(guess)); n == 0 || n != c.cols {
		return SubmitRes{}, fmt.Errorf("judge: submit %q: %w", guess, game.ErrGuessLength)
	}
	q := url.Values{}
	q.Set("id", id)
	q.Set("guess", guess)
	var res SubmitRes
	if _, err := c.get(ctx, "/v1/game/submit", q, &res); err != nil {
		return SubmitRes{}, fmt.Errorf("judge: submit: %w", err)
	}
	return res, nil
}

// get performs a GET and decodes a 2xx JSON body into out. The status code is
// returned whenever a response arrived.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) (int, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	log.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("judge request")
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, responseError(resp, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

// responseError classifies a non-2xx response.
func responseError(resp *http.Response, body []byte) error {
	var e errorRes
	if json.Unmarshal(body, &e) == nil && len(e.Detail) > 0 && string(e.Detail) != "null" {
		return &game.RejectedError{Status: resp.StatusCode, Detail: detailText(e.Detail)}
	}
	if resp.StatusCode >= 500 {
		return errors.New(resp.Status)
	}
	return &game.RejectedError{Status: resp.StatusCode, Detail: "Unknown error"}
}

// detailText renders a detail field. Plain strings are used as-is; structured
// details (validation errors) fall back to their JSON text.
func detailText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
