// apps/go-client/internal/client/client.go
//
// Event loop that hosts the game reducer.
// Responsibilities:
//   - Own the game.State and feed it events one at a time, in arrival order.
//   - Run the effects Apply returns: draw on the sink, call the judge,
//     persist identity, schedule retries.
//   - Let callers wait for the loop to settle (no request or timer pending).
//
// Judge calls run on their own goroutines; their answers come back through
// the inbox, so the reducer never sees two events at once.

package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-client/internal/game"
	"github.com/robalobadob/wordle/apps/go-client/internal/judge"
)

// Judge is the remote service the client plays against.
type Judge interface {
	Game(ctx context.Context, id string) (game.Session, []game.HistoryEntry, error)
	NewGame(ctx context.Context, mode string, attempts int, userID string) (id, uid string, err error)
	Submit(ctx context.Context, id, guess string) (judge.SubmitRes, error)
}

// Identities persists the session and user ids.
type Identities interface {
	SessionID(ctx context.Context) (string, error)
	UserID(ctx context.Context) (string, error)
	Save(ctx context.Context, sessionID, userID string) error
	ClearSession(ctx context.Context) error
	Clear(ctx context.Context) error
}

// Sink draws what the reducer asks for.
type Sink interface {
	SetCell(row, col int, letter rune, color game.Color)
	SetKeyColor(letter rune, color game.Color)
	SetMessage(text string, color game.Color)
	ResetBoard(rows, cols int)
	ResetKeyboard()
}

// flusher is implemented by sinks that paint in batches.
type flusher interface{ Flush() error }

type (
	// eventMsg carries input; done, if set, is answered once the loop settles.
	eventMsg struct {
		evs  []game.Event
		done chan game.State
	}
	// resultMsg carries the answer to a judge call.
	resultMsg struct{ ev game.Event }
	// delayedMsg fires a Delay effect's follow-up.
	delayedMsg struct{ eff game.Effect }
)

// Client runs one game session loop. Create with New and start with Run.
type Client struct {
	judge Judge
	ids   Identities
	sink  Sink

	inbox chan any

	// owned by the Run goroutine
	state   game.State
	pending int
	waiters []chan game.State
	wg      sync.WaitGroup
}

// New wires a client. Nothing happens until Run.
func New(j Judge, ids Identities, sink Sink, opts game.Options) *Client {
	return &Client{
		judge: j,
		ids:   ids,
		sink:  sink,
		inbox: make(chan any, 64),
		state: game.NewState(opts),
	}
}

// Run starts the session from the persisted identity and processes events
// until ctx is done. Outstanding judge calls are cancelled before it returns.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		c.wg.Wait()
	}()

	sid, err := c.ids.SessionID(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("read session id")
	}
	uid, err := c.ids.UserID(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("read user id")
	}
	log.Info().Str("session", sid).Str("user", uid).Msg("client starting")
	c.handle(ctx, game.Start{SessionID: sid, UserID: uid})
	c.settle()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-c.inbox:
			switch m := m.(type) {
			case eventMsg:
				for _, ev := range m.evs {
					c.handle(ctx, ev)
				}
				if m.done != nil {
					c.waiters = append(c.waiters, m.done)
				}
			case resultMsg:
				c.pending--
				c.handle(ctx, m.ev)
			case delayedMsg:
				c.pending--
				c.run(ctx, m.eff)
				c.flush()
			}
			c.settle()
		}
	}
}

// Send queues input without waiting for it to be handled.
func (c *Client) Send(ctx context.Context, ev game.Event) error {
	select {
	case c.inbox <- eventMsg{evs: []game.Event{ev}}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do queues evs and blocks until they, and every judge call or retry they
// caused, have been handled. It returns the state at that point.
func (c *Client) Do(ctx context.Context, evs ...game.Event) (game.State, error) {
	done := make(chan game.State, 1)
	select {
	case c.inbox <- eventMsg{evs: evs, done: done}:
	case <-ctx.Done():
		return game.State{}, ctx.Err()
	}
	select {
	case st := <-done:
		return st, nil
	case <-ctx.Done():
		return game.State{}, ctx.Err()
	}
}

// settle answers waiters once nothing is outstanding.
func (c *Client) settle() {
	if c.pending > 0 {
		return
	}
	for _, w := range c.waiters {
		w <- c.state
	}
	c.waiters = nil
}

func (c *Client) handle(ctx context.Context, ev game.Event) {
	prev := c.state.Phase
	next, effects := game.Apply(c.state, ev)
	c.state = next
	if next.Phase != prev {
		log.Debug().Str("from", prev.String()).Str("to", next.Phase.String()).Msg("phase")
	}
	for _, eff := range effects {
		c.run(ctx, eff)
	}
	c.flush()
}

func (c *Client) flush() {
	if f, ok := c.sink.(flusher); ok {
		if err := f.Flush(); err != nil {
			log.Error().Err(err).Msg("flush")
		}
	}
}

func (c *Client) run(ctx context.Context, eff game.Effect) {
	switch e := eff.(type) {
	case game.SetCell:
		c.sink.SetCell(e.Row, e.Col, e.Letter, e.Color)
	case game.SetKeyColor:
		c.sink.SetKeyColor(e.Letter, e.Color)
	case game.SetMessage:
		c.sink.SetMessage(e.Text, e.Color)
	case game.ResetBoard:
		c.sink.ResetBoard(e.Rows, e.Cols)
	case game.ResetKeyboard:
		c.sink.ResetKeyboard()

	case game.FetchGame:
		c.call(ctx, func(ctx context.Context) game.Event {
			sess, hist, err := c.judge.Game(ctx, e.ID)
			if err != nil {
				log.Warn().Err(err).Str("session", e.ID).Msg("fetch game")
			} else if sess.MaxRows > 0 && len(hist) > sess.MaxRows {
				log.Warn().Int("history", len(hist)).Int("max_rounds", sess.MaxRows).Msg("history longer than max rounds; extra rows ignored")
			}
			return game.FetchResult{ID: e.ID, Session: sess, History: hist, Err: err}
		})
	case game.NewGame:
		c.call(ctx, func(ctx context.Context) game.Event {
			id, uid, err := c.judge.NewGame(ctx, e.Mode, e.Attempts, e.UserID)
			if err != nil {
				log.Warn().Err(err).Msg("new game")
			} else {
				log.Info().Str("session", id).Str("user", uid).Msg("new game")
			}
			return game.NewGameResult{ID: id, UserID: uid, Err: err}
		})
	case game.SubmitGuess:
		c.call(ctx, func(ctx context.Context) game.Event {
			res, err := c.judge.Submit(ctx, e.ID, e.Guess)
			if err != nil {
				log.Warn().Err(err).Str("guess", e.Guess).Msg("submit")
			} else {
				log.Debug().Str("guess", e.Guess).Str("hint", res.Hint).Msg("submit")
			}
			return game.SubmitResult{ID: e.ID, Guess: e.Guess, Hint: res.Hint, Answer: res.Answer, IsEnd: res.IsEnd, Err: err}
		})

	case game.SaveIdentity:
		if err := c.ids.Save(ctx, e.SessionID, e.UserID); err != nil {
			log.Error().Err(err).Msg("save identity")
		}
	case game.ClearIdentity:
		var err error
		if e.KeepUser {
			err = c.ids.ClearSession(ctx)
		} else {
			err = c.ids.Clear(ctx)
		}
		if err != nil {
			log.Error().Err(err).Msg("clear identity")
		}

	case game.Delay:
		log.Debug().Dur("after", e.After).Type("then", e.Then).Msg("retry scheduled")
		c.pending++
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			t := time.NewTimer(e.After)
			defer t.Stop()
			select {
			case <-t.C:
				c.post(ctx, delayedMsg{eff: e.Then})
			case <-ctx.Done():
			}
		}()
	default:
		log.Error().Type("effect", eff).Msg("unhandled effect")
	}
}

// call runs fn off-loop and posts its event back.
func (c *Client) call(ctx context.Context, fn func(context.Context) game.Event) {
	c.pending++
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.post(ctx, resultMsg{ev: fn(ctx)})
	}()
}

func (c *Client) post(ctx context.Context, m any) {
	select {
	case c.inbox <- m:
	case <-ctx.Done():
	}
}
