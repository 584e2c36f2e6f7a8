package cli

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/EternisAI/recollect/pkg/helpers"
	"github.com/EternisAI/recollect/pkg/mem0"
	"github.com/EternisAI/recollect/pkg/searcher"
)

func init() {
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memories",
		Long: "Search memories semantically, within a date window, or both.\n" +
			"With a window and no query, lists everything in the window.",
		Args: cobra.MaximumNArgs(1),
		Run:  runSearch,
	}
	searchCmd.Flags().IntP("limit", "l", 0, "Max results (default: configured limit)")
	searchCmd.Flags().Int("days", 0, "Restrict to the last N days")
	searchCmd.Flags().String("start", "", "Window start date (YYYY-MM-DD)")
	searchCmd.Flags().String("end", "", "Window end date (YYYY-MM-DD)")
	searchCmd.Flags().Bool("show-full", false, "Print full memory text without truncation")
	searchCmd.MarkFlagsMutuallyExclusive("days", "start")
	searchCmd.MarkFlagsMutuallyExclusive("days", "end")
	searchCmd.MarkFlagsRequiredTogether("start", "end")
	RootCmd.AddCommand(searchCmd)

	relatedCmd := &cobra.Command{
		Use:   "related <content>",
		Short: "Find memories related to a piece of content",
		Args:  cobra.ExactArgs(1),
		Run:   runRelated,
	}
	relatedCmd.Flags().IntP("limit", "l", 0, "Max results (default: configured limit)")
	relatedCmd.Flags().Int("exclude-days", 0, "Exclude memories from the last N days")
	RootCmd.AddCommand(relatedCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	var query string
	if len(args) > 0 {
		query = args[0]
	}
	days, _ := cmd.Flags().GetInt("days")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	limit, _ := cmd.Flags().GetInt("limit")
	showFull, _ := cmd.Flags().GetBool("show-full")

	hasWindow := days > 0 || start != "" || end != ""
	if query == "" && !hasWindow {
		exitErr("usage", errors.New("provide a query, --days, or --start/--end"))
	}

	app, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer app.close()

	var records []mem0.Record
	if hasWindow {
		q := searcher.TimeRangeQuery{
			UserID: userFlag,
			Query:  query,
			Start:  start,
			End:    end,
			Limit:  limit,
		}
		if days > 0 {
			q.DaysBack = helpers.Ptr(days)
		}
		records, err = app.searcher.SearchByTimeRange(cmd.Context(), q)
	} else {
		records, err = app.searcher.SearchByQuery(cmd.Context(), query, searcher.QueryOptions{
			UserID: userFlag,
			Limit:  limit,
		})
	}
	if err != nil {
		exitErr("search", err)
	}

	printRecords(records, showFull)
}

func runRelated(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	excludeDays, _ := cmd.Flags().GetInt("exclude-days")

	app, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer app.close()

	opts := searcher.RelatedOptions{UserID: userFlag, Limit: limit}
	if excludeDays > 0 {
		now := time.Now()
		opts.ExcludeRange = &mem0.TimeRange{
			Start: now.AddDate(0, 0, -excludeDays).Format(mem0.DateLayout),
			End:   now.Format(mem0.DateLayout),
		}
	}

	records, err := app.searcher.SearchRelated(cmd.Context(), args[0], opts)
	if err != nil {
		exitErr("related search", err)
	}

	printRecords(records, false)
}
