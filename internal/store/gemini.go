package store

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Gemini implements Client over the Gemini Files API.
type Gemini struct {
	client *genai.Client
	logger *zap.Logger
}

// NewGemini creates a Files API client authenticated with the given key.
func NewGemini(ctx context.Context, apiKey string, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{client: client, logger: logger}, nil
}

// NewGeminiFromClient wraps an existing genai client, so the review call and
// the file store can share one connection.
func NewGeminiFromClient(client *genai.Client, logger *zap.Logger) *Gemini {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{client: client, logger: logger}
}

// Upload pushes bytes to the Files API under displayName.
func (g *Gemini) Upload(ctx context.Context, r io.Reader, displayName, mimeType string) (*Asset, error) {
	file, err := g.client.Files.Upload(ctx, r, &genai.UploadFileConfig{
		DisplayName: displayName,
		MIMEType:    mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload of %s failed: %w", displayName, err)
	}
	g.logger.Debug("uploaded file",
		zap.String("display_name", displayName),
		zap.String("remote_name", file.Name),
		zap.String("state", string(file.State)))
	return assetFromFile(file), nil
}

// Stat fetches the current state of a remote file.
func (g *Gemini) Stat(ctx context.Context, remoteName string) (*Asset, error) {
	file, err := g.client.Files.Get(ctx, remoteName, nil)
	if err != nil {
		return nil, fmt.Errorf("stat of %s failed: %w", remoteName, err)
	}
	return assetFromFile(file), nil
}

// List returns every file currently stored remotely.
func (g *Gemini) List(ctx context.Context) ([]*Asset, error) {
	var assets []*Asset
	for file, err := range g.client.Files.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing remote files failed: %w", err)
		}
		assets = append(assets, assetFromFile(file))
	}
	return assets, nil
}

// Delete removes a remote file.
func (g *Gemini) Delete(ctx context.Context, remoteName string) error {
	if _, err := g.client.Files.Delete(ctx, remoteName, nil); err != nil {
		return fmt.Errorf("delete of %s failed: %w", remoteName, err)
	}
	g.logger.Debug("deleted remote file", zap.String("remote_name", remoteName))
	return nil
}

// assetFromFile maps the SDK file record onto the local Asset type.
func assetFromFile(f *genai.File) *Asset {
	a := &Asset{
		RemoteName:  f.Name,
		DisplayName: f.DisplayName,
		URI:         f.URI,
		CreatedAt:   f.CreateTime,
	}
	switch f.State {
	case genai.FileStateProcessing:
		a.State = StateProcessing
	case genai.FileStateActive:
		a.State = StateActive
	case genai.FileStateFailed:
		a.State = StateFailed
	default:
		a.State = StateUnknown
	}
	return a
}
