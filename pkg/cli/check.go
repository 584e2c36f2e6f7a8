package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EternisAI/recollect/pkg/config"
	"github.com/EternisAI/recollect/pkg/mem0"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and backend connectivity",
		Args:  cobra.NoArgs,
		Run:   runCheck,
	}
	RootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, _ []string) {
	cfg, err := config.LoadConfig(false)
	if err != nil {
		exitErr("load config", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "API key\t%s\n", maskKey(cfg.Mem0APIKey))
	fmt.Fprintf(w, "Base URL\t%s\n", cfg.Mem0BaseURL)
	fmt.Fprintf(w, "Default user\t%s\n", cfg.DefaultUserID)
	fmt.Fprintf(w, "Extract mode\t%s\n", cfg.DefaultExtractMode)
	fmt.Fprintf(w, "Batch size\t%d\n", cfg.BatchSize)
	fmt.Fprintf(w, "Supported formats\t%s\n", strings.Join(cfg.SupportedFormats, ", "))
	fmt.Fprintf(w, "Max file size\t%d MB\n", cfg.MaxFileSizeMB)
	fmt.Fprintf(w, "Search limits\t%d default, %d max\n", cfg.SearchDefaultLimit, cfg.SearchMaxLimit)
	fmt.Fprintf(w, "Journal path\t%s\n", cfg.DBPath)
	_ = w.Flush()

	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}

	client := mem0.NewClient(cfg.Mem0APIKey,
		mem0.WithBaseURL(cfg.Mem0BaseURL),
		mem0.WithLogger(newLogger()))
	if err := client.Ping(cmd.Context()); err != nil {
		exitErr("backend ping", err)
	}

	fmt.Println("\nBackend reachable, API key accepted")
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
