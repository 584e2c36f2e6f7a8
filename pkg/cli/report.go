package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Collect weekly report data",
		Long: "Collect the memories of one Monday-to-Sunday week plus related\n" +
			"history from before it.",
		Args: cobra.NoArgs,
		Run:  runReport,
	}
	reportCmd.Flags().Int("weeks-back", 1, "How many weeks back (1 = last completed week)")
	reportCmd.Flags().StringP("output", "o", "", "Write the full report JSON to a file")
	RootCmd.AddCommand(reportCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory statistics for a user",
		Args:  cobra.NoArgs,
		Run:   runStats,
	}
	RootCmd.AddCommand(statsCmd)
}

func runReport(cmd *cobra.Command, _ []string) {
	weeksBack, _ := cmd.Flags().GetInt("weeks-back")
	output, _ := cmd.Flags().GetString("output")

	app, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer app.close()

	report, err := app.searcher.WeeklyReport(cmd.Context(), userFlag, weeksBack)
	if err != nil {
		exitErr("weekly report", err)
	}

	if output != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			exitErr("encode report", err)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			exitErr("write report", err)
		}
		app.logger.Info("Report written", "path", output)
	}

	if jsonFlag {
		printJSON(report)
		return
	}

	fmt.Printf("Week %s to %s\n", report.WeekStart, report.WeekEnd)
	fmt.Printf("Memories this week: %d, related history: %d\n",
		report.Summary.TotalCurrent, report.Summary.TotalRelated)
	if len(report.WeekMemories) > 0 {
		fmt.Println("\nThis week:")
		printRecords(report.WeekMemories, false)
	}
	if len(report.RelatedMemories) > 0 {
		fmt.Println("\nRelated history:")
		printRecords(report.RelatedMemories, false)
	}
}

func runStats(cmd *cobra.Command, _ []string) {
	app, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer app.close()

	stats, err := app.searcher.UserStats(cmd.Context(), userFlag)
	if err != nil {
		exitErr("stats", err)
	}

	if jsonFlag {
		printJSON(stats)
		return
	}

	fmt.Printf("User: %s\n", stats.UserID)
	fmt.Printf("Total memories: %d\n", stats.TotalMemories)
	fmt.Printf("Added in the last 7 days: %d\n", stats.RecentMemories7d)
	printCountTable("By source:", stats.Sources)
	printCountTable("By extract mode:", stats.ExtractModes)
	fmt.Printf("\nGenerated at %s\n", stats.GeneratedAt)
}
