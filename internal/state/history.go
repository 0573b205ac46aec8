package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/nextgen/internal/types"
)

// HistoryStore keeps each session's chat history in
// sessions/<sessionID>/history.json.
type HistoryStore struct {
	root  string
	mu    sync.Mutex
	locks map[types.SessionID]*sync.Mutex
}

// NewHistoryStore creates a file-backed HistoryStore rooted at the given directory.
func NewHistoryStore(root string) *HistoryStore {
	return &HistoryStore{
		root:  root,
		locks: make(map[types.SessionID]*sync.Mutex),
	}
}

// getLock returns the per-session mutex, creating one if it doesn't exist.
func (h *HistoryStore) getLock(id types.SessionID) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()

	if lock, ok := h.locks[id]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	h.locks[id] = lock
	return lock
}

func (h *HistoryStore) historyPath(id types.SessionID) string {
	return filepath.Join(h.root, "sessions", string(id), "history.json")
}

// Load returns the stored history, or an empty history if none was saved.
func (h *HistoryStore) Load(_ context.Context, id types.SessionID) (types.ChatHistory, error) {
	lock := h.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	data, err := os.ReadFile(h.historyPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return types.ChatHistory{}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	history := types.ChatHistory{}
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return history.Trim(), nil
}

// Save replaces the stored history, keeping at most types.MaxHistory entries.
func (h *HistoryStore) Save(_ context.Context, id types.SessionID, history types.ChatHistory) error {
	lock := h.getLock(id)
	lock.Lock()
	defer lock.Unlock()

	if history == nil {
		history = types.ChatHistory{}
	}
	data, err := json.MarshalIndent(history.Trim(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := writeFileAtomic(h.historyPath(id), data); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Delete removes the stored history.
func (h *HistoryStore) Delete(_ context.Context, id types.SessionID) error {
	lock := h.getLock(id)
	lock.Lock()
	err := os.Remove(h.historyPath(id))
	lock.Unlock()

	h.mu.Lock()
	delete(h.locks, id)
	h.mu.Unlock()

	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}
