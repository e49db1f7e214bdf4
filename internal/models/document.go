// Package models defines the domain types for textpad.
package models

import "time"

// DocumentInfo describes the persisted document without its content.
type DocumentInfo struct {
	Path      string    `json:"path"`
	Exists    bool      `json:"exists"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
