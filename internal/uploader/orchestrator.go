// Package uploader drives local files through upload, readiness polling, and
// manifest registration. Each file runs as its own task with an explicit
// state machine; the orchestrator fans the tasks out concurrently and waits
// for every task to reach a terminal state.
package uploader

import (
	"bytes"
	"context"
	"mime"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greglamb/gemini-pr-reviewer/internal/config"
	"github.com/greglamb/gemini-pr-reviewer/internal/manifest"
	"github.com/greglamb/gemini-pr-reviewer/internal/store"
)

// LocalFile is one file to be uploaded: raw bytes plus the user-facing name.
type LocalFile struct {
	Name string
	Data []byte
}

// task is the per-file state machine instance.
type task struct {
	file  LocalFile
	state AssetState
	asset *store.Asset
}

// Orchestrator uploads batches of files and registers the resulting assets
// in the manifest before they are handed to anyone else.
type Orchestrator struct {
	store     store.Client
	manifest  *manifest.Manifest
	cfg       config.UploadConfig
	sessionID string
	logger    *zap.Logger
}

// New creates an orchestrator bound to one invocation's session id.
func New(st store.Client, mf *manifest.Manifest, cfg config.UploadConfig, sessionID string, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     st,
		manifest:  mf,
		cfg:       cfg,
		sessionID: sessionID,
		logger:    logger,
	}
}

// UploadAll drives every file to READY and returns the assets in input
// order. Validation of the whole batch precedes any network call, so an
// oversized file means zero remote side effects. If any file fails after
// validation, the batch fails, but assets that already reached READY stay
// registered in the manifest: they are real remote resources and must remain
// trackable for cleanup.
func (o *Orchestrator) UploadAll(ctx context.Context, files []LocalFile) ([]*store.Asset, error) {
	// Whole-batch validation first: no upload starts if any file is too big.
	for _, f := range files {
		limit := o.cfg.SizeLimitFor(f.Name)
		if size := int64(len(f.Data)); size > limit {
			return nil, &FileTooLargeError{File: f.Name, Size: size, Limit: limit}
		}
	}

	tasks := make([]*task, len(files))
	for i, f := range files {
		tasks[i] = &task{file: f, state: StateSubmitting}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			return o.runTask(gctx, t)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assets := make([]*store.Asset, len(tasks))
	for i, t := range tasks {
		assets[i] = t.asset
	}
	return assets, nil
}

// runTask moves one file through its state machine to a terminal state.
func (o *Orchestrator) runTask(ctx context.Context, t *task) error {
	t.advance(StateUploading)

	asset, err := o.uploadWithRetry(ctx, t.file)
	if err != nil {
		return err
	}
	t.asset = asset
	t.advance(StateProcessing)

	if err := o.pollUntilReady(ctx, t); err != nil {
		return err
	}

	// Write-before-use: the asset is recorded as ours before any caller can
	// reference it in a prompt.
	entry := manifest.Entry{
		RemoteName:  t.asset.RemoteName,
		DisplayName: t.asset.DisplayName,
		SessionID:   o.sessionID,
	}
	if err := o.manifest.Register(entry); err != nil {
		return err
	}
	t.advance(StateReady)

	o.logger.Info("asset ready",
		zap.String("display_name", t.asset.DisplayName),
		zap.String("remote_name", t.asset.RemoteName),
		zap.String("uri", t.asset.URI))
	return nil
}

// uploadWithRetry performs the upload call with bounded exponential backoff.
func (o *Orchestrator) uploadWithRetry(ctx context.Context, f LocalFile) (*store.Asset, error) {
	mimeType := mime.TypeByExtension(filepath.Ext(f.Name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var lastErr error
	for attempt := 0; attempt < o.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := o.retryBackoff(attempt)
			o.logger.Debug("retrying upload",
				zap.String("file", f.Name),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		asset, err := o.store.Upload(ctx, bytes.NewReader(f.Data), f.Name, mimeType)
		if err == nil {
			return asset, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, &UploadError{File: f.Name, Attempts: o.cfg.MaxAttempts, Err: lastErr}
}

// retryBackoff returns exponential backoff based on attempt number.
func (o *Orchestrator) retryBackoff(attempt int) time.Duration {
	shift := attempt - 1
	if shift > 16 {
		shift = 16
	}
	backoff := o.cfg.RetryBackoffBase * time.Duration(1<<shift)
	if backoff > o.cfg.RetryBackoffMax {
		backoff = o.cfg.RetryBackoffMax
	}
	return backoff
}

// pollUntilReady repeatedly checks the asset's remote state until it is
// ACTIVE, FAILED, or the readiness deadline passes. At least one status
// check always runs, even if the upload response already claimed readiness.
func (o *Orchestrator) pollUntilReady(ctx context.Context, t *task) error {
	deadline := time.Now().Add(o.cfg.ReadyTimeout)
	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		current, err := o.store.Stat(ctx, t.asset.RemoteName)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Transient stat failures spend the timeout budget, not the
			// retry budget.
			o.logger.Debug("status check failed",
				zap.String("remote_name", t.asset.RemoteName),
				zap.Error(err))
		} else {
			switch current.State {
			case store.StateActive:
				t.asset = current
				return nil
			case store.StateFailed:
				t.advance(StateFailed)
				return &ProcessingError{File: t.file.Name, RemoteName: t.asset.RemoteName}
			}
			o.logger.Debug("asset still processing",
				zap.String("display_name", t.file.Name),
				zap.String("state", current.State.String()))
		}

		if time.Now().After(deadline) {
			t.advance(StateTimedOut)
			return &TimeoutError{File: t.file.Name, RemoteName: t.asset.RemoteName, Budget: o.cfg.ReadyTimeout}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
