// Package document implements the persistence service for the single
// append-only text document.
package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/starford/textpad/internal/apperr"
	"github.com/starford/textpad/internal/checksum"
	"github.com/starford/textpad/internal/models"
	"github.com/starford/textpad/internal/storage"
)

// FileName is the name of the document inside the storage root.
const FileName = "text.txt"

// Store appends to, loads and deletes the document. Each saved text becomes
// one newline-terminated record; records are never rewritten.
type Store struct {
	mu     sync.Mutex
	fs     storage.Provider
	name   string
	logger *slog.Logger
}

// NewStore creates a Store over provider. The document lives at FileName.
func NewStore(provider storage.Provider, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{fs: provider, name: FileName, logger: logger}
}

// Path returns the absolute document path.
func (s *Store) Path() string {
	p, err := s.fs.Abs(s.name)
	if err != nil {
		return s.name
	}
	return p
}

// Name returns the document path relative to the storage root.
func (s *Store) Name() string {
	return s.name
}

// Append adds text followed by a newline to the document, creating it on
// first use. Empty text is a no-op and reports false.
func (s *Store) Append(_ context.Context, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(text)
}

// AppendInfo appends like Append and describes the document as that
// append left it, before any other operation can run.
func (s *Store) AppendInfo(_ context.Context, text string) (models.DocumentInfo, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.appendLocked(text)
	if err != nil {
		return models.DocumentInfo{Path: s.Path()}, false, err
	}
	info, err := s.infoLocked()
	return info, saved, err
}

func (s *Store) appendLocked(text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	if !utf8.ValidString(text) {
		return false, apperr.ErrInvalidEncoding
	}
	record := []byte(text + "\n")

	exists, err := s.exists()
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.fs.Append(s.name, record); err != nil {
			return false, fmt.Errorf("document: append: %w", err)
		}
		s.logger.Debug("document: appended", slog.String("path", s.Path()), slog.Int("bytes", len(record)))
		return true, nil
	}
	if err := s.fs.Write(s.name, record); err != nil {
		return false, fmt.Errorf("document: create: %w", err)
	}
	s.logger.Debug("document: created", slog.String("path", s.Path()), slog.Int("bytes", len(record)))
	return true, nil
}

// Load returns the whole document as text.
func (s *Store) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fs.Read(s.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.ErrNotFound
		}
		return "", fmt.Errorf("document: load: %w", err)
	}
	if !utf8.Valid(data) {
		return "", apperr.ErrInvalidEncoding
	}
	return string(data), nil
}

// Clear deletes the document. It reports whether a document was removed;
// clearing an absent document is not an error.
func (s *Store) Clear(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists()
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := s.fs.Delete(s.name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("document: delete: %w", err)
	}
	return true, nil
}

// Info describes the document on disk.
func (s *Store) Info(_ context.Context) (models.DocumentInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked()
}

func (s *Store) infoLocked() (models.DocumentInfo, error) {
	out := models.DocumentInfo{Path: s.Path()}
	info, err := s.fs.Stat(s.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return out, fmt.Errorf("document: stat: %w", err)
	}
	data, err := s.fs.Read(s.name)
	if err != nil {
		return out, fmt.Errorf("document: read: %w", err)
	}
	out.Exists = true
	out.Size = info.Size()
	out.Checksum = checksum.Sum(data)
	out.UpdatedAt = info.ModTime()
	return out, nil
}

func (s *Store) exists() (bool, error) {
	_, err := s.fs.Stat(s.name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("document: stat: %w", err)
}
