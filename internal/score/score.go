// Package score persists named integers, used for the high score.
package score

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Store loads and saves named integers. A missing value loads as 0 and
// save failures are swallowed: scores are never worth interrupting a game.
type Store interface {
	LoadInteger(key string) int
	SaveInteger(key string, value int)
}

// FileStore keeps the values in a TOML file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
}

// NewFileStore creates a FileStore backed by the given path.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// DefaultPath returns the default score file path
// (~/.local/share/pitchback/scores.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "pitchback", "scores.toml")
}

// LoadInteger returns the stored value for key, or 0 if the file or key
// does not exist or cannot be read.
func (s *FileStore) LoadInteger(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	return values[key]
}

// SaveInteger stores value under key. Errors are logged and dropped.
// The write is atomic: data goes to a temporary file that is renamed
// into place, so a crash mid-write cannot corrupt existing scores.
func (s *FileStore) SaveInteger(key string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.read()
	values[key] = value

	if err := s.write(values); err != nil {
		if s.logger != nil {
			s.logger.Printf("score: save %s: %v", key, err)
		}
	}
}

func (s *FileStore) read() map[string]int {
	values := make(map[string]int)
	if _, err := toml.DecodeFile(s.path, &values); err != nil {
		return make(map[string]int)
	}
	return values
}

func (s *FileStore) write(values map[string]int) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".pitchback-scores-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(values); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}
