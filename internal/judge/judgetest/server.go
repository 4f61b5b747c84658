// apps/go-client/internal/judge/judgetest/server.go
//
// In-process fake of the judge service for tests.
// Responsibilities:
//   - Serve the /v1/game/* contract with chi, the same routes the real judge has.
//   - Keep games in memory, score guesses, end games on win or exhaustion.
//   - Let tests seed games, inject one-shot failures, and slow responses down.
//
// Usage:
//
//	fake := judgetest.New("crane")
//	ts := httptest.NewServer(fake)
//	defer ts.Close()

package judgetest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Route names accepted by FailNext and Calls.
const (
	RouteNew    = "new"
	RouteSubmit = "submit"
	RouteGame   = "game"
)

// Entry is one scored guess.
type Entry struct {
	Word string `json:"word"`
	Hint string `json:"hint"`
}

// Game is the fake's record of a session.
type Game struct {
	ID          string
	UserID      string
	Mode        string
	Answer      string
	MaxRounds   int
	NumAttempts int
	IsEnd       bool
	History     []Entry
}

type failure struct {
	status int
	body   string
}

// Server is a fake judge. The zero value is not usable; call New.
type Server struct {
	r *chi.Mux

	mu        sync.Mutex
	answer    string
	vocab     map[string]struct{}
	games     map[string]*Game
	failures  map[string][]failure
	calls     map[string]int
	delay     time.Duration
	maxRounds int
}

// New returns a fake whose new games all have the given answer.
func New(answer string) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		answer:    strings.ToLower(answer),
		games:     make(map[string]*Game),
		failures:  make(map[string][]failure),
		calls:     make(map[string]int),
		maxRounds: 6,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(s.slow)

	s.r.Get("/v1/game/new", s.handleNew)
	s.r.Get("/v1/game/submit", s.handleSubmit)
	s.r.Get("/v1/game/{id}", s.handleGame)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// Router exposes the internal router.
func (s *Server) Router() chi.Router { return s.r }

// SetVocabulary restricts valid guesses. An empty list accepts any word.
func (s *Server) SetVocabulary(words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vocab = make(map[string]struct{}, len(words))
	for _, w := range words {
		s.vocab[strings.ToLower(w)] = struct{}{}
	}
}

// SetDelay makes every response wait d before being handled.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Put seeds or replaces a game.
func (s *Server) Put(g Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.MaxRounds == 0 {
		g.MaxRounds = s.maxRounds
	}
	g.Answer = strings.ToLower(g.Answer)
	s.games[g.ID] = &g
}

// Get returns a copy of a game.
func (s *Server) Get(id string) (Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return Game{}, false
	}
	out := *g
	out.History = append([]Entry(nil), g.History...)
	return out, true
}

// FailNext makes the next request to route fail with status. A body starting
// with '{' is sent as JSON; anything else as plain text.
func (s *Server) FailNext(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, body: body})
}

// Calls reports how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) slow(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		d := s.delay
		s.mu.Unlock()
		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// enter counts the call and reports whether an injected failure was written.
func (s *Server) enter(w http.ResponseWriter, route string) bool {
	s.mu.Lock()
	s.calls[route]++
	q := s.failures[route]
	if len(q) == 0 {
		s.mu.Unlock()
		return false
	}
	f := q[0]
	s.failures[route] = q[1:]
	s.mu.Unlock()

	if !strings.HasPrefix(f.body, "{") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
	return true
}

// ------------------------------ handlers -----------------------------------

type newGameRes struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	MaxRounds   int    `json:"max_rounds"`
	NumAttempts int    `json:"num_attempts"`
	IsEnd       bool   `json:"is_end"`
}

type guessRes struct {
	newGameRes
	Hint   string `json:"hint"`
	Answer string `json:"answer"`
}

type gameRes struct {
	newGameRes
	Answer  string  `json:"answer"`
	History []Entry `json:"history"`
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	if s.enter(w, RouteNew) {
		return
	}
	q := r.URL.Query()
	uid := q.Get("user_id")
	if uid == "" {
		uid = uuid.NewString()
	}
	rounds := s.maxRounds
	if n, err := strconv.Atoi(q.Get("num_attempts")); err == nil && n > 0 {
		rounds = n
	}

	g := &Game{
		ID:        uuid.NewString(),
		UserID:    uid,
		Mode:      q.Get("mode"),
		Answer:    s.answer,
		MaxRounds: rounds,
	}
	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()

	_ = json.NewEncoder(w).Encode(head(g))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.enter(w, RouteSubmit) {
		return
	}
	id := r.URL.Query().Get("id")
	guess := strings.ToLower(r.URL.Query().Get("guess"))

	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Game not found")
		return
	}
	if g.IsEnd || g.NumAttempts >= g.MaxRounds {
		writeDetail(w, http.StatusBadRequest, "Game is over")
		return
	}
	if len(guess) != len(g.Answer) {
		writeDetail(w, http.StatusBadRequest, "Invalid guess length")
		return
	}
	if len(s.vocab) > 0 {
		if _, ok := s.vocab[guess]; !ok {
			writeDetail(w, http.StatusBadRequest, "Not a valid word")
			return
		}
	}

	hint := Score(g.Answer, guess)
	g.History = append(g.History, Entry{Word: guess, Hint: hint})
	answer := ""
	if hint == strings.Repeat("0", len(g.Answer)) {
		g.IsEnd = true
		answer = g.Answer
	}
	if !g.IsEnd {
		g.NumAttempts++
		if g.NumAttempts >= g.MaxRounds {
			g.IsEnd = true
			answer = g.Answer
		}
	}
	_ = json.NewEncoder(w).Encode(guessRes{newGameRes: head(g), Hint: hint, Answer: answer})
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	if s.enter(w, RouteGame) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Game not found")
		return
	}
	res := gameRes{newGameRes: head(g), History: append([]Entry{}, g.History...)}
	if g.IsEnd {
		res.Answer = g.Answer
	}
	_ = json.NewEncoder(w).Encode(res)
}

func head(g *Game) newGameRes {
	return newGameRes{
		ID:          g.ID,
		UserID:      g.UserID,
		MaxRounds:   g.MaxRounds,
		NumAttempts: g.NumAttempts,
		IsEnd:       g.IsEnd,
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
