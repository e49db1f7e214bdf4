// Package storage defines the file-system abstraction under the storage root.
package storage

import "io/fs"

// Provider is the interface for file operations relative to the storage root.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Append writes content to the end of an existing file at path.
	Append(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Stat returns file info for path. Missing files yield an error matching fs.ErrNotExist.
	Stat(path string) (fs.FileInfo, error)
	// Abs returns the absolute path for path.
	Abs(path string) (string, error)
}
