package sessionsdk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Snapshot is the durable form of a session. It mirrors what the browser
// dashboard kept in localStorage: the user projection and the flag, plus the
// token pair so a restart can resume without a network call.
type Snapshot struct {
	User            *User  `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	AccessToken     string `json:"accessToken,omitempty"`
	RefreshToken    string `json:"refreshToken,omitempty"`
}

// Persistence is the single owner of durable session state. Only the
// Manager's login/logout/refresh paths write through it; the monitor and
// guards read the in-memory state instead.
type Persistence interface {
	Save(s Snapshot) error
	// Load returns the stored snapshot and whether one existed. A corrupted
	// entry is reported as an error; callers treat it the same as absent.
	Load() (Snapshot, bool, error)
	Clear() error
}

// FileStore persists the session as a JSON file with owner-only permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed session store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

func (f *FileStore) Save(s Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("sessionsdk: create session dir: %w", err)
	}

	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("sessionsdk: encode session: %w", err)
	}

	// Write-then-rename so a crash mid-write can't leave a torn file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("sessionsdk: write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("sessionsdk: replace session: %w", err)
	}
	return nil
}

func (f *FileStore) Load() (Snapshot, bool, error) {
	b, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("sessionsdk: read session: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return Snapshot{}, false, fmt.Errorf("sessionsdk: corrupt session file: %w", err)
	}
	return s, true, nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("sessionsdk: clear session: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Persistence, for tests and short-lived tools.
type MemoryStore struct {
	mu    sync.Mutex
	snap  Snapshot
	found bool
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap, m.found = s, true
	return nil
}

func (m *MemoryStore) Load() (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.found, nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap, m.found = Snapshot{}, false
	return nil
}
