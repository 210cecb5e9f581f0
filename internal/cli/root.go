// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/realcolon/downloader/internal/tui"
	"github.com/realcolon/downloader/pkg/figshare"
)

// RootOpts holds global CLI options.
type RootOpts struct {
	JSONOut  bool
	Quiet    bool
	Config   string
	LogLevel string
}

// DownloadOpts holds the flags of the download command.
type DownloadOpts struct {
	HelpFilter bool
	OutputDir  string
	Filter     string
	Verbose    bool
	Yes        bool
	Endpoint   string
}

var summaryColor = color.New(color.Bold).SprintFunc()

// Execute runs the CLI with the given version string.
func Execute(version string) error {
	ctx, cancel := signalContext(context.Background())
	defer cancel()

	root := NewRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// NewRootCmd builds the realcolon command tree. Listing and downloading is
// the root command itself; version and config are subcommands.
func NewRootCmd(version string) *cobra.Command {
	ro := &RootOpts{}
	do := &DownloadOpts{}

	root := &cobra.Command{
		Use:   "realcolon",
		Short: "Download the files included in the REAL-Colon dataset",
		Long: `Lists the files of the REAL-Colon dataset on Figshare, optionally filters
them by name, asks for confirmation and downloads them one by one.
Files whose local copy already has the expected MD5 are skipped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if do.HelpFilter {
				return nil
			}
			return applySettingsDefaults(cmd, ro, do)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, ro, do)
		},
	}

	// Global flags
	root.PersistentFlags().BoolVar(&ro.JSONOut, "json", false, "Emit machine-readable JSON progress events on stdout")
	root.PersistentFlags().BoolVarP(&ro.Quiet, "quiet", "q", false, "No progress bars, one line per file")
	root.PersistentFlags().StringVar(&ro.Config, "config", "", "Path to config file (JSON or YAML)")
	root.PersistentFlags().StringVar(&ro.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Download flags
	root.Flags().BoolVar(&do.HelpFilter, "help-filter", false, "Show help for filtering feature")
	root.Flags().StringVarP(&do.OutputDir, "output-dir", "o", "", "Output directory (default: current directory)")
	root.Flags().StringVarP(&do.Filter, "filter", "f", "", "Regex to filter files by name (see --help-filter)")
	root.Flags().BoolVarP(&do.Verbose, "verbose", "v", false, "Show more information (e.g. file list)")
	root.Flags().BoolVarP(&do.Yes, "yes", "y", false, "Do not ask for confirmation")
	root.Flags().StringVar(&do.Endpoint, "endpoint", figshare.DefaultEndpoint, "Figshare API root")
	_ = root.Flags().MarkHidden("endpoint")

	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newConfigCmd())
	root.SetHelpCommand(&cobra.Command{Use: "help", Hidden: true})

	return root
}

func runDownload(cmd *cobra.Command, ro *RootOpts, do *DownloadOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if do.HelpFilter {
		printHelpFilter(stdout)
		return nil
	}

	// Human-readable text moves to stderr when stdout carries JSON events.
	human := stdout
	if ro.JSONOut {
		human = stderr
	}

	re, err := figshare.CompileFilter(do.Filter)
	if err != nil {
		return err
	}
	logger, err := newLogger(stderr, ro.LogLevel)
	if err != nil {
		return err
	}

	client := figshare.NewClient(figshare.Settings{
		Endpoint: do.Endpoint,
		Logger:   logger,
	})

	var progress figshare.ProgressFunc
	var bars *tui.BarRenderer
	switch {
	case ro.JSONOut:
		progress = jsonProgress(stdout)
	case ro.Quiet || !isTerminal(stderr):
		progress = cliProgress(human)
	default:
		bars = tui.NewBarRenderer(stderr)
		defer bars.Close()
		progress = bars.Handler()
	}

	progress.Emit(figshare.ProgressEvent{Event: "list_start", Message: client.Endpoint()})
	files, err := client.GetFiles(ctx, figshare.RealColonArticleID)
	if err != nil {
		return err
	}
	files = figshare.SortFiles(figshare.FilterFilesRegexp(files, re))
	progress.Emit(figshare.ProgressEvent{Event: "list_done", Count: len(files)})

	if do.Verbose {
		figshare.ShowFiles(human, files)
	}

	summary := figshare.Summarize(files)
	fmt.Fprintln(human, summaryColor(summary.String()))

	ok, err := askConfirmation(cmd.InOrStdin(), human, do.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(human, "Aborted.")
		return nil
	}

	results, err := client.DownloadFiles(ctx, files, do.OutputDir, progress)
	if err != nil {
		return err
	}

	var downloaded, skipped int
	var written int64
	for _, r := range results {
		switch r.Outcome {
		case figshare.OutcomeDownloaded:
			downloaded++
			written += r.Bytes
		case figshare.OutcomeSkipped:
			skipped++
		}
	}
	if !ro.JSONOut {
		fmt.Fprintf(human, "Downloaded %d files (%s), skipped %d already present\n",
			downloaded, humanize.IBytes(uint64(written)), skipped)
	}
	return nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && tui.IsInteractive(f)
}
