// Package autosave keeps a working copy of the drawing on disk. Changes are
// encoded when they are scheduled and written once the editor has been quiet
// for the configured delay.
package autosave

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/KennethOlivas/zen-draw-sub000/document"
)

var log = logger.GetLogger("autosave")

const DefaultDelay = time.Second

type Saver struct {
	path  string
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending []byte
}

func New(path string, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Saver{path: path, delay: delay}
}

func (s *Saver) Path() string {
	return s.path
}

// Load returns the saved drawing, or an empty one when there is none. A
// corrupt file also yields the empty drawing, together with the error.
func (s *Saver) Load() (document.Document, bool, error) {
	empty := document.New(nil, "")
	d, err := document.ReadFile(s.path)
	switch {
	case err == nil:
		log.Debugf("restored %d elements from %s", len(d.Elements), s.path)
		return d, true, nil
	case errors.Is(err, fs.ErrNotExist):
		return empty, false, nil
	default:
		return empty, false, err
	}
}

// Schedule encodes d now and writes it after the delay, replacing any write
// still pending.
func (s *Saver) Schedule(d document.Document) error {
	data, err := d.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode autosave: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = data
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.Flush(); err != nil {
			log.Errorf("autosave failed: %v", err)
		}
	})
	return nil
}

// Flush writes any pending drawing immediately.
func (s *Saver) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pending == nil {
		return nil
	}
	if err := writeAtomic(s.path, s.pending); err != nil {
		return err
	}
	log.Debugf("autosaved %d bytes to %s", len(s.pending), s.path)
	s.pending = nil
	return nil
}

// Clear drops any pending write and deletes the saved drawing.
func (s *Saver) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear autosave: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".autosave-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write autosave: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write autosave: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace autosave: %w", err)
	}
	return nil
}
