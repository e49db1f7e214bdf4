// Package session implements the three user commands (save, load, clear)
// over a pair of text buffers.
//
// Handlers never return errors. Storage failures are logged and the
// buffers are returned as the command leaves them, so a presentation
// layer can apply the result without any error handling of its own.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starford/textpad/internal/apperr"
)

// Buffers holds the transient input and output text.
type Buffers struct {
	// Input is the text the user is composing.
	Input string `json:"input"`
	// Output is the text most recently loaded from the document.
	Output string `json:"output"`
}

// Document is the persistence the handlers drive.
type Document interface {
	Append(ctx context.Context, text string) (bool, error)
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) (bool, error)
	Path() string
}

// Handler runs commands against a Document.
type Handler struct {
	doc    Document
	logger *slog.Logger
}

// NewHandler creates a command handler.
func NewHandler(doc Document, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{doc: doc, logger: logger}
}

// Save appends the input buffer to the document and empties it.
// An empty input leaves everything untouched.
func (h *Handler) Save(ctx context.Context, b Buffers) Buffers {
	if b.Input == "" {
		return b
	}
	if _, err := h.doc.Append(ctx, b.Input); err != nil {
		h.logger.Error("save failed",
			slog.String("path", h.doc.Path()),
			slog.String("error", err.Error()))
	} else {
		h.logger.Info("text saved", slog.String("path", h.doc.Path()))
	}
	b.Input = ""
	return b
}

// Load replaces the output buffer with the document content. When the
// document is missing or unreadable the buffers are returned unchanged.
func (h *Handler) Load(ctx context.Context, b Buffers) Buffers {
	text, err := h.doc.Load(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.logger.Warn("load skipped: no document", slog.String("path", h.doc.Path()))
		} else {
			h.logger.Error("load failed",
				slog.String("path", h.doc.Path()),
				slog.String("error", err.Error()))
		}
		return b
	}
	b.Output = text
	return b
}

// Clear empties the output buffer and deletes the document if present.
func (h *Handler) Clear(ctx context.Context, b Buffers) Buffers {
	b.Output = ""
	removed, err := h.doc.Clear(ctx)
	switch {
	case err != nil:
		h.logger.Error("clear failed",
			slog.String("path", h.doc.Path()),
			slog.String("error", err.Error()))
	case !removed:
		h.logger.Info("clear: no document found", slog.String("path", h.doc.Path()))
	default:
		h.logger.Info("document removed", slog.String("path", h.doc.Path()))
	}
	return b
}
