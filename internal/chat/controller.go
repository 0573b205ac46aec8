package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/user/nextgen/internal/state"
	"github.com/user/nextgen/internal/types"
)

// Actions accepted by Handle.
const (
	ActionPost  = "post"
	ActionClear = "clear"
)

// ErrUnknownAction is returned for an action other than post or clear.
var ErrUnknownAction = errors.New("unknown chat action")

// Request is one chat interaction. An empty Action means post.
type Request struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// Response carries the history after the interaction and the assistant reply,
// which is empty for clear and for blank messages.
type Response struct {
	SessionID types.SessionID   `json:"session_id"`
	History   types.ChatHistory `json:"history"`
	Reply     string            `json:"reply,omitempty"`
}

// Controller applies chat interactions to persisted histories. Each session's
// load, update and save runs under that session's lock.
type Controller struct {
	sessions types.SessionStore
	history  types.HistoryStore
	gw       Gateway
	now      func() time.Time

	mu    sync.Mutex
	locks map[types.SessionID]*sync.Mutex
}

// NewController creates a controller. gw may be nil.
func NewController(sessions types.SessionStore, history types.HistoryStore, gw Gateway) *Controller {
	return &Controller{
		sessions: sessions,
		history:  history,
		gw:       gw,
		now:      time.Now,
		locks:    make(map[types.SessionID]*sync.Mutex),
	}
}

// getLock returns the per-session mutex, creating one if it doesn't exist.
func (c *Controller) getLock(id types.SessionID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lock, ok := c.locks[id]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	c.locks[id] = lock
	return lock
}

// lockSession resolves key and locks its session. When the session was
// expired before the lock was acquired, the key is resolved again.
func (c *Controller) lockSession(ctx context.Context, key types.SessionKey) (types.SessionID, *sync.Mutex, error) {
	for {
		id, err := c.sessions.ResolveOrCreate(ctx, key)
		if err != nil {
			return "", nil, fmt.Errorf("resolve session: %w", err)
		}
		lock := c.getLock(id)
		lock.Lock()
		_, err = c.sessions.Get(ctx, id)
		if err == nil {
			return id, lock, nil
		}
		lock.Unlock()
		if !errors.Is(err, state.ErrNotFound) {
			return "", nil, fmt.Errorf("get session: %w", err)
		}
	}
}

// Expire deletes the session and its history if its last activity is before
// cutoff. It runs under the session lock, so an interaction in flight
// finishes first and its activity is seen by the check. It reports whether
// the session was deleted; an unknown session is not an error.
func (c *Controller) Expire(ctx context.Context, id types.SessionID, cutoff time.Time) (bool, error) {
	lock := c.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := c.sessions.Get(ctx, id)
	if errors.Is(err, state.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get session: %w", err)
	}
	if !sess.UpdatedAt.Before(cutoff) {
		return false, nil
	}
	if err := c.history.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete history: %w", err)
	}
	if err := c.sessions.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}

	c.mu.Lock()
	delete(c.locks, id)
	c.mu.Unlock()
	return true, nil
}

// Handle applies req to the conversation identified by key. Storage errors
// are returned as is; model failures never are.
func (c *Controller) Handle(ctx context.Context, key types.SessionKey, req Request) (*Response, error) {
	switch req.Action {
	case "", ActionPost, ActionClear:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	id, lock, err := c.lockSession(ctx, key)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	history, err := c.history.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	var reply string
	if req.Action == ActionClear {
		history = types.ChatHistory{}
	} else {
		history, reply = Post(ctx, c.gw, history, req.Message)
		if reply == "" {
			return &Response{SessionID: id, History: history}, nil
		}
	}

	if err := c.history.Save(ctx, id, history); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	if err := c.sessions.Touch(ctx, id, c.now()); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return &Response{SessionID: id, History: history, Reply: reply}, nil
}

// History returns the current conversation for key, creating the session if
// needed.
func (c *Controller) History(ctx context.Context, key types.SessionKey) (*Response, error) {
	id, lock, err := c.lockSession(ctx, key)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	history, err := c.history.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &Response{SessionID: id, History: history}, nil
}
