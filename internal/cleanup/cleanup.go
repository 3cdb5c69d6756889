// Package cleanup deletes remote assets tracked by the manifest and
// reconciles the manifest against the live remote listing. Deletion failures
// are isolated and reported; the pass always completes and always ends with
// a reconciled inventory, because the manifest is only a best-effort local
// shadow of remote truth.
package cleanup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/greglamb/gemini-pr-reviewer/internal/manifest"
	"github.com/greglamb/gemini-pr-reviewer/internal/store"
)

// Scope selects which manifest entries a cleanup pass targets.
type Scope int

const (
	// ScopeSession targets only assets created by the current invocation.
	ScopeSession Scope = iota
	// ScopeAllTime targets every tracked asset regardless of session.
	ScopeAllTime
)

// String returns the scope name.
func (s Scope) String() string {
	if s == ScopeAllTime {
		return "all-time"
	}
	return "session"
}

// DeleteFailure records one asset that could not be deleted. The entry stays
// in the manifest so it remains discoverable and retryable on the next run.
// A not-found failure is recorded the same way as a transient one: silently
// clearing not-found entries could mask real leaks.
type DeleteFailure struct {
	Entry manifest.Entry
	Err   error
}

// Report summarizes a cleanup pass.
type Report struct {
	Scope    Scope
	Deleted  int
	Failures []DeleteFailure
	// Inventory is the post-cleanup reconciliation of manifest vs. remote.
	Inventory Inventory
}

// Engine performs scoped deletions via the store client and the manifest.
type Engine struct {
	store    store.Client
	manifest *manifest.Manifest
	logger   *zap.Logger
}

// New creates a cleanup engine.
func New(st store.Client, mf *manifest.Manifest, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: st, manifest: mf, logger: logger}
}

// Run deletes every asset in scope, unregistering each only after its remote
// delete succeeded, then reconciles what remains against the live listing.
// Per-asset failures never abort the pass.
func (e *Engine) Run(ctx context.Context, scope Scope, sessionID string) (*Report, error) {
	var targets []manifest.Entry
	var err error
	switch scope {
	case ScopeSession:
		targets, err = e.manifest.ForSession(sessionID)
	case ScopeAllTime:
		targets, err = e.manifest.All()
	default:
		return nil, fmt.Errorf("unknown cleanup scope %d", scope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cleanup targets: %w", err)
	}

	report := &Report{Scope: scope}
	for _, entry := range targets {
		if err := e.store.Delete(ctx, entry.RemoteName); err != nil {
			e.logger.Warn("delete failed; keeping manifest entry",
				zap.String("remote_name", entry.RemoteName),
				zap.Error(err))
			report.Failures = append(report.Failures, DeleteFailure{Entry: entry, Err: err})
			continue
		}
		if err := e.manifest.Unregister(entry.RemoteName); err != nil {
			// Remote asset is gone but the ledger still lists it; surface as
			// a failure so the stale entry is not forgotten.
			report.Failures = append(report.Failures, DeleteFailure{Entry: entry, Err: err})
			continue
		}
		report.Deleted++
	}

	remaining, err := e.manifest.All()
	if err != nil {
		return nil, fmt.Errorf("failed to re-read manifest: %w", err)
	}
	remote, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote assets: %w", err)
	}
	report.Inventory = Reconcile(remaining, remote)

	e.logger.Info("cleanup finished",
		zap.String("scope", scope.String()),
		zap.Int("deleted", report.Deleted),
		zap.Int("failed", len(report.Failures)),
		zap.Int("owned", len(report.Inventory.Owned)),
		zap.Int("strays", len(report.Inventory.Strays)))
	return report, nil
}
