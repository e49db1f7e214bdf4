package api

import "github.com/starford/textpad/internal/models"

// AppendRequest is the request body for saving text.
type AppendRequest struct {
	Text string `json:"text" example:"hello"`
}

// AppendResponse reports where the text went.
type AppendResponse struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}

// DocumentResponse carries the full document content.
type DocumentResponse struct {
	Content  string `json:"content" example:"hello\nworld\n"`
	Checksum string `json:"checksum"`
}

// DocumentInfo is the metadata response (aliased from the domain layer).
type DocumentInfo = models.DocumentInfo
