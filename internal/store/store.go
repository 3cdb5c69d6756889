// Package store adapts the Gemini Files API behind a small client interface.
// The rest of the tool only sees Assets and the four primitive operations
// (upload, stat, list, delete); the vendor SDK is confined to this package.
package store

import (
	"context"
	"io"
	"time"
)

// RemoteState is the server-side processing state of an uploaded asset.
type RemoteState int

const (
	// StateUnknown covers states the server did not report.
	StateUnknown RemoteState = iota
	// StateUploading means the upload call has not finished server-side.
	StateUploading
	// StateProcessing means the server accepted the bytes and is processing.
	StateProcessing
	// StateActive means the asset is ready to be referenced in a prompt.
	StateActive
	// StateFailed means server-side processing rejected the asset.
	StateFailed
)

// String returns the wire-style name of the state.
func (s RemoteState) String() string {
	switch s {
	case StateUploading:
		return "UPLOADING"
	case StateProcessing:
		return "PROCESSING"
	case StateActive:
		return "ACTIVE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Asset is the remote identity of an uploaded file. RemoteName is the
// server-assigned id ("files/..."); DisplayName is the original filename;
// URI is the locator handed to the model inside prompts.
type Asset struct {
	RemoteName  string
	DisplayName string
	URI         string
	State       RemoteState
	CreatedAt   time.Time
}

// Client is the set of primitive remote operations the lifecycle manager
// needs. The Gemini implementation is the production client; tests use Mock.
type Client interface {
	// Upload pushes bytes to the remote store under displayName and returns
	// the freshly created asset handle.
	Upload(ctx context.Context, r io.Reader, displayName, mimeType string) (*Asset, error)

	// Stat fetches the current server-side state of an asset.
	Stat(ctx context.Context, remoteName string) (*Asset, error)

	// List returns every asset currently held by the remote store.
	List(ctx context.Context) ([]*Asset, error)

	// Delete removes an asset from the remote store.
	Delete(ctx context.Context, remoteName string) error
}
