package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/textpad/internal/apperr"
	"github.com/starford/textpad/internal/checksum"
	"github.com/starford/textpad/internal/models"
)

// maxBody bounds a single saved text.
const maxBody = 1 << 20

// Document is the persistence the API serves.
type Document interface {
	AppendInfo(ctx context.Context, text string) (models.DocumentInfo, bool, error)
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) (bool, error)
	Info(ctx context.Context) (models.DocumentInfo, error)
}

// Handler holds API route handlers.
type Handler struct {
	doc Document
}

// NewHandler creates a new Handler.
func NewHandler(doc Document) *Handler {
	return &Handler{doc: doc}
}

// LoadDocument handles GET /api/document.
//
//	@Summary		Load the saved text
//	@Tags			document
//	@Produce		json
//	@Param			If-None-Match	header		string	false	"ETag from a previous load"
//	@Success		200				{object}	DocumentResponse
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Failure		422				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/document [get]
func (h *Handler) LoadDocument(w http.ResponseWriter, r *http.Request) {
	text, err := h.doc.Load(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("no saved text"))
		case errors.Is(err, apperr.ErrInvalidEncoding):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("saved text is not valid UTF-8"))
		default:
			slog.Error("load document failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	sum := checksum.Sum([]byte(text))
	w.Header().Set("ETag", checksum.ETag(sum))
	if inm := r.Header.Get("If-None-Match"); inm != "" && checksum.Matches(inm, sum) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, DocumentResponse{Content: text, Checksum: sum})
}

// AppendDocument handles POST /api/document.
//
//	@Summary		Append text to the document
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AppendRequest	true	"Text to save"
//	@Success		201		{object}	AppendResponse
//	@Success		204		"Empty text, nothing saved"
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/document [post]
func (h *Handler) AppendDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req AppendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	info, saved, err := h.doc.AppendInfo(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidEncoding) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("text is not valid UTF-8"))
			return
		}
		slog.Error("append document failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !saved {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, AppendResponse{Path: info.Path, Checksum: info.Checksum})
}

// ClearDocument handles DELETE /api/document.
//
//	@Summary		Delete the document
//	@Tags			document
//	@Success		204	"Document deleted or already absent"
//	@Security		BearerAuth
//	@Router			/document [delete]
func (h *Handler) ClearDocument(w http.ResponseWriter, r *http.Request) {
	if _, err := h.doc.Clear(r.Context()); err != nil {
		slog.Error("clear document failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DocumentInfo handles GET /api/document/info.
//
//	@Summary		Describe the document
//	@Tags			document
//	@Produce		json
//	@Success		200	{object}	DocumentInfo
//	@Security		BearerAuth
//	@Router			/document/info [get]
func (h *Handler) DocumentInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.doc.Info(r.Context())
	if err != nil {
		slog.Error("document info failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
