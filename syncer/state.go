package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	twitter "github.com/anatolykoptev/go-twitter-sync"
)

// Checkpoint is the persisted progress of one listing.
type Checkpoint struct {
	// Cursor resumes the current pass. Empty means the next run starts a new pass.
	Cursor twitter.Cursor `json:"cursor,omitempty"`
	// Floor is the newest item ID of the last completed pass.
	Floor string `json:"floor,omitempty"`
	// PendingFloor is the newest item ID seen by the pass in progress. It becomes
	// Floor once the pass completes.
	PendingFloor string    `json:"pending_floor,omitempty"`
	RunID        string    `json:"run_id,omitempty"`
	Passes       int       `json:"passes"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// State holds the checkpoints of all listings and persists them as JSON.
type State struct {
	path        string
	mu          sync.RWMutex
	checkpoints map[string]Checkpoint
}

func NewState(path string) *State {
	return &State{
		path:        path,
		checkpoints: make(map[string]Checkpoint),
	}
}

func (s *State) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, &s.checkpoints); err != nil {
		return fmt.Errorf("parse state %s: %w", s.path, err)
	}
	return nil
}

// Save writes the state atomically (temp file + rename).
func (s *State) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(s.checkpoints, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *State) Get(listing string) Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkpoints[listing]
}

func (s *State) Set(listing string, cp Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[listing] = cp
}

// Reset forgets a listing so its next run starts from scratch.
func (s *State) Reset(listing string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkpoints, listing)
}
