// Command prreview reviews a pull request with Gemini: it uploads the
// project archive, builds a review prompt from the user story and acceptance
// criteria, asks the model for feedback, and cleans up the uploaded files
// afterwards. Every uploaded file is tracked in a durable manifest so stray
// uploads from crashed runs can be removed later.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "prreview",
	Short: "Gemini PR Reviewer - review code against a user story",
	Long: `prreview analyzes source code against user stories using Gemini.

It uploads the project ZIP to the Gemini Files API, waits until the file is
ready, renders a structured review prompt, and writes the generated feedback
to a markdown file. Every upload is recorded in a local manifest so that
files left behind by crashed or interrupted runs can be listed and deleted
later, even from a different invocation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// reviewCmd runs a full review: upload, prompt, inference, cleanup.
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a project ZIP against a user story",
	Long: `Uploads the project ZIP, renders the review prompt, and asks Gemini
for feedback. By default the uploaded files are deleted at exit and the
remaining remote files are listed.

Example:
  prreview review -z project.zip -s user_story.txt -c acceptance_criteria.txt -o feedback.md`,
	RunE: runReview,
}

// listFilesCmd shows the reconciled remote inventory without changing it.
var listFilesCmd = &cobra.Command{
	Use:   "list-files",
	Short: "List remote files, reconciled against the local manifest",
	RunE:  runListFiles,
}

// cleanupCmd deletes every tracked file, then lists what is left remotely.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete all tracked remote files and show what remains",
	RunE:  runCleanup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config YAML")

	reviewCmd.Flags().StringVarP(&zipPath, "zip", "z", "", "path to project ZIP file (required)")
	reviewCmd.Flags().StringVarP(&storyPath, "story", "s", "", "path to user story text file (required)")
	reviewCmd.Flags().StringVarP(&criteriaPath, "criteria", "c", "", "path to acceptance criteria text file")
	reviewCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to save feedback markdown")
	reviewCmd.Flags().BoolVar(&showFeedback, "show-feedback", false, "also print feedback to the console")
	reviewCmd.Flags().BoolVar(&keepFiles, "keep-files", false, "skip the end-of-run cleanup of this session's uploads")
	reviewCmd.Flags().BoolVar(&knownIncomplete, "known-incomplete", false, "use the in-progress review prompt")
	_ = reviewCmd.MarkFlagRequired("zip")
	_ = reviewCmd.MarkFlagRequired("story")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(listFilesCmd)
	rootCmd.AddCommand(cleanupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
