package position

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Automecanic/bot-trading-spoot-sub000/internal/logger"
)

// DefaultDebounceInterval bounds the write volume of low-value mutations
// (peak-price updates). Losing at most one interval of those on a crash is
// acceptable; position existence and entry fields are always flushed
// immediately.
const DefaultDebounceInterval = 60 * time.Second

// Store persists the symbol -> Position map as a JSON file.
type Store struct {
	path     string
	logger   *logger.Logger
	mu       sync.Mutex
	debounce time.Duration
	lastSave time.Time
}

// NewStore creates a position store backed by the given file path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{
		path:     path,
		logger:   log,
		debounce: DefaultDebounceInterval,
	}
}

// SetDebounceInterval overrides the debounced-save window.
func (s *Store) SetDebounceInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounce = d
}

// Load reads the persisted positions. A missing file yields an empty map; a
// malformed file is logged and also yields an empty map, never an error.
// Optional fields absent from older records are back-filled using
// defaultStopFrac.
func (s *Store) Load(defaultStopFrac float64) map[string]*Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := make(map[string]*Position)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.LogError("Position Store Load", err)
		}
		return positions
	}
	if len(data) == 0 {
		return positions
	}

	if err := json.Unmarshal(data, &positions); err != nil {
		s.logger.LogError("Position Store Parse", err)
		return make(map[string]*Position)
	}

	for symbol, pos := range positions {
		if pos.Symbol == "" {
			pos.Symbol = symbol
		}
		pos.Backfill(defaultStopFrac)
	}

	return positions
}

// SaveImmediate writes the positions synchronously. Called after every
// position-count-changing mutation; the on-disk state reflects the in-memory
// state before this returns, or the write error is surfaced to the caller.
func (s *Store) SaveImmediate(positions map[string]*Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(positions)
}

// SaveDebounced writes only if the debounce window has elapsed since the last
// successful write. Used for high-frequency, low-value mutations; not
// guaranteed durable.
func (s *Store) SaveDebounced(positions map[string]*Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.lastSave) < s.debounce {
		return nil
	}
	return s.writeLocked(positions)
}

func (s *Store) writeLocked(positions map[string]*Position) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	// Write to temporary file first, then atomic move
	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp position file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		return fmt.Errorf("failed to move position file: %w", err)
	}

	s.lastSave = time.Now()
	return nil
}
