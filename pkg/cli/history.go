package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/EternisAI/recollect/pkg/db"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent upload attempts from the local journal",
		Args:  cobra.NoArgs,
		Run:   runHistory,
	}
	cmd.Flags().IntP("limit", "l", 20, "Max entries")
	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, _ []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	app, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer app.close()

	if app.journal == nil {
		exitErr("history", errors.New("upload journal unavailable"))
	}

	userID := userFlag
	if userID == "" {
		userID = app.cfg.DefaultUserID
	}

	entries, err := app.journal.RecentUploads(cmd.Context(), userID, limit)
	if err != nil {
		exitErr("read journal", err)
	}
	counts, err := app.journal.CountByStatus(cmd.Context(), userID)
	if err != nil {
		exitErr("read journal", err)
	}

	if jsonFlag {
		printJSON(map[string]any{"uploads": entries, "totals": counts})
		return
	}

	if len(entries) == 0 {
		fmt.Printf("No uploads recorded for %s\n", userID)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTATUS\tFILE\tSOURCE\tMEMORIES\tERROR")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"),
			entry.Status,
			entry.File,
			entry.Source,
			entry.MemoryCount,
			entry.Error)
	}
	_ = w.Flush()

	fmt.Printf("\n%d succeeded, %d failed\n", counts[db.StatusSuccess], counts[db.StatusError])
}
