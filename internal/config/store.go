package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/logger"
)

// Store persists the Parameters file. The accumulated realized P&L ledger
// lives inside Parameters, so a ledger update and its save are one operation.
type Store struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// NewStore creates a parameter store backed by the given file path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{path: path, logger: log}
}

// Load reads the persisted parameters. A missing file yields the defaults,
// which are written back so the file exists for hand-editing; a malformed
// file is logged and also yields the defaults. Never returns an error to the
// caller.
func (s *Store) Load() *Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.LogError("Config Load", err)
		}
		params := DefaultParameters()
		if err := s.writeLocked(params); err != nil {
			s.logger.LogError("Config Write Defaults", err)
		}
		return params
	}

	params := DefaultParameters()
	if err := json.Unmarshal(data, params); err != nil {
		s.logger.LogError("Config Parse", err)
		return DefaultParameters()
	}

	return params
}

// Save writes the parameters synchronously.
func (s *Store) Save(params *Parameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(params)
}

func (s *Store) writeLocked(params *Parameters) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		return fmt.Errorf("failed to move config file: %w", err)
	}

	return nil
}
