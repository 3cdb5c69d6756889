package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/greglamb/gemini-pr-reviewer/internal/cleanup"
	"github.com/greglamb/gemini-pr-reviewer/internal/config"
	"github.com/greglamb/gemini-pr-reviewer/internal/manifest"
	"github.com/greglamb/gemini-pr-reviewer/internal/prompt"
	"github.com/greglamb/gemini-pr-reviewer/internal/review"
	"github.com/greglamb/gemini-pr-reviewer/internal/store"
	"github.com/greglamb/gemini-pr-reviewer/internal/uploader"
)

var (
	// review flags
	zipPath         string
	storyPath       string
	criteriaPath    string
	outputPath      string
	showFeedback    bool
	keepFiles       bool
	knownIncomplete bool
)

// app bundles the wired-up components shared by all commands.
type app struct {
	cfg       *config.Config
	client    *genai.Client
	store     store.Client
	manifest  *manifest.Manifest
	sessionID string
}

// newApp loads config and connects the store and manifest.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set (environment or config file)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.Gemini.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	mf, err := manifest.Open(cfg.Manifest.DatabasePath)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		client:    client,
		store:     store.NewGeminiFromClient(client, logger),
		manifest:  mf,
		sessionID: uuid.New().String(),
	}, nil
}

func (a *app) close() {
	if err := a.manifest.Close(); err != nil {
		logger.Warn("failed to close manifest", zap.Error(err))
	}
}

// signalContext cancels on SIGINT/SIGTERM so in-flight uploads are abandoned
// cleanly; whatever already reached the manifest stays tracked.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	zipData, err := os.ReadFile(zipPath)
	if err != nil {
		return fmt.Errorf("failed to read ZIP: %w", err)
	}
	storyText, err := os.ReadFile(storyPath)
	if err != nil {
		return fmt.Errorf("failed to read story: %w", err)
	}
	criteriaText := prompt.CriteriaFallback
	if criteriaPath != "" {
		data, err := os.ReadFile(criteriaPath)
		if err != nil {
			return fmt.Errorf("failed to read criteria: %w", err)
		}
		criteriaText = string(data)
	}

	// Session-scoped cleanup runs even when the review itself fails, unless
	// the user asked to keep the files.
	engine := cleanup.New(a.store, a.manifest, logger)
	defer func() {
		if keepFiles {
			fmt.Println("Keeping uploaded files (--keep-files).")
			return
		}
		// Fresh context: the run context may already be canceled.
		cleanupCtx := context.Background()
		report, err := engine.Run(cleanupCtx, cleanup.ScopeSession, a.sessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cleanup error: %v\n", err)
			return
		}
		printReport(report)
	}()

	orch := uploader.New(a.store, a.manifest, a.cfg.Upload, a.sessionID, logger)
	assets, err := orch.UploadAll(ctx, []uploader.LocalFile{
		{Name: filepath.Base(zipPath), Data: zipData},
	})
	if err != nil {
		return describeUploadFailure(err)
	}

	template := prompt.TemplateStandard
	if knownIncomplete {
		template = prompt.TemplateInProgress
	}
	rendered := prompt.Render(template, prompt.Context{
		Assets:   assets,
		Story:    string(storyText),
		Criteria: criteriaText,
	})

	fmt.Printf("Sending review request to %s ...\n", a.cfg.Gemini.Model)
	reviewer := review.New(a.client, a.cfg.Gemini.Model, a.cfg.Gemini.Temperature)
	feedback, err := reviewer.Review(ctx, rendered)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(feedback), 0644); err != nil {
			return fmt.Errorf("failed to write feedback: %w", err)
		}
		fmt.Printf("Feedback saved to: %s\n", outputPath)
	}
	if showFeedback || outputPath == "" {
		fmt.Printf("\n--- Feedback ---\n\n%s\n\n--- End Feedback ---\n", feedback)
	}
	return nil
}

// describeUploadFailure adds the failure stage to batch errors so the user
// can tell a local rejection from a remote one.
func describeUploadFailure(err error) error {
	var tooLarge *uploader.FileTooLargeError
	var upload *uploader.UploadError
	var processing *uploader.ProcessingError
	var timeout *uploader.TimeoutError
	switch {
	case errors.As(err, &tooLarge):
		return fmt.Errorf("rejected before upload: %w", err)
	case errors.As(err, &upload):
		return fmt.Errorf("upload stage failed: %w", err)
	case errors.As(err, &processing):
		return fmt.Errorf("remote processing failed: %w", err)
	case errors.As(err, &timeout):
		return fmt.Errorf("readiness timed out: %w", err)
	default:
		return err
	}
}

func runListFiles(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.manifest.All()
	if err != nil {
		return err
	}
	remote, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	printInventory(cleanup.Reconcile(entries, remote))
	return nil
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Println("Cleaning up all tracked files ...")
	engine := cleanup.New(a.store, a.manifest, logger)
	report, err := engine.Run(ctx, cleanup.ScopeAllTime, a.sessionID)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

// printReport shows deletion results followed by the reconciled inventory.
func printReport(r *cleanup.Report) {
	fmt.Printf("Deleted %d file(s).\n", r.Deleted)
	for _, f := range r.Failures {
		fmt.Printf("  ! could not delete %s (%s): %v\n", f.Entry.RemoteName, f.Entry.DisplayName, f.Err)
	}
	printInventory(r.Inventory)
}

// printInventory shows the remote listing annotated with ownership. The
// reconciled view, not the manifest alone, is what the operator sees.
func printInventory(inv cleanup.Inventory) {
	fmt.Println("\nCurrently stored remote files:")
	if len(inv.Owned) == 0 && len(inv.Strays) == 0 {
		fmt.Println("  (none)")
	}
	for _, item := range inv.Owned {
		fmt.Printf("  - %s (%s, state=%s) [tracked, session %s]\n",
			item.RemoteName, item.DisplayName, item.State, item.SessionID)
	}
	for _, item := range inv.Strays {
		fmt.Printf("  - %s (%s, state=%s) [untracked stray]\n",
			item.RemoteName, item.DisplayName, item.State)
	}
	for _, e := range inv.Missing {
		fmt.Printf("  ? %s (%s) tracked locally but missing remotely\n", e.RemoteName, e.DisplayName)
	}
}
