// Package cli implements the recollect CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/EternisAI/recollect/pkg/config"
	"github.com/EternisAI/recollect/pkg/db"
	"github.com/EternisAI/recollect/pkg/mem0"
	"github.com/EternisAI/recollect/pkg/parsing"
	"github.com/EternisAI/recollect/pkg/searcher"
	"github.com/EternisAI/recollect/pkg/uploader"
)

var (
	userFlag    string
	verboseFlag bool
	jsonFlag    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "recollect",
	Short: "Upload chat exports and notes to a memory backend and query them",
	Long: "recollect parses chat exports (JSON, markdown, plain text) into messages,\n" +
		"stores them in a Mem0-style memory backend, and queries them by meaning,\n" +
		"date window, and weekly report.",
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User the memories belong to (default: configured user)")
	RootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable debug logging")
	RootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print results as JSON")
}

func newLogger() *clog.Logger {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if verboseFlag || os.Getenv("RECOLLECT_DEBUG") != "" {
		logger.SetLevel(clog.DebugLevel)
	}
	return logger
}

// app bundles the wired components behind the commands.
type app struct {
	cfg      *config.Config
	logger   *clog.Logger
	client   *mem0.Client
	uploader *uploader.Uploader
	searcher *searcher.Searcher
	journal  *db.Store
}

func newApp() (*app, error) {
	logger := newLogger()

	cfg, err := config.LoadConfig(false)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := mem0.NewClient(cfg.Mem0APIKey,
		mem0.WithBaseURL(cfg.Mem0BaseURL),
		mem0.WithLogger(logger))

	// A broken journal only costs bookkeeping, never an upload.
	journal, err := db.NewStore(context.Background(), cfg.DBPath)
	if err != nil {
		logger.Warn("Upload journal unavailable", "path", cfg.DBPath, "error", err)
		journal = nil
	}

	parser := parsing.NewParser(logger)
	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		uploader: uploader.NewUploader(client, parser, journal, cfg, logger),
		searcher: searcher.NewSearcher(client, cfg, logger),
		journal:  journal,
	}, nil
}

func (a *app) close() {
	if a.journal != nil {
		_ = a.journal.Close()
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
