package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"

	"github.com/EternisAI/recollect/pkg/db"
	"github.com/EternisAI/recollect/pkg/mem0"
	"github.com/EternisAI/recollect/pkg/uploader"
)

const previewRunes = 100

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode json", err)
	}
	fmt.Println(string(data))
}

func printRecords(records []mem0.Record, showFull bool) {
	if jsonFlag {
		printJSON(records)
		return
	}
	if len(records) == 0 {
		fmt.Println("No memories found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSCORE\tMEMORY")
	for _, record := range records {
		memory := record.Memory
		if !showFull {
			memory = preview(memory)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", formatDate(record.CreatedAt), formatScore(record.Score), memory)
	}
	_ = w.Flush()
	fmt.Printf("\n%d memories\n", len(records))
}

func printStoredRecords(records []mem0.Record) {
	if jsonFlag {
		printJSON(records)
		return
	}
	fmt.Printf("Stored %d memories\n", len(records))
	for _, record := range records {
		if record.Memory == "" {
			continue
		}
		event := record.Event
		if event == "" {
			event = "ADD"
		}
		fmt.Printf("  [%s] %s\n", event, preview(record.Memory))
	}
}

type uploadResultView struct {
	File     string `json:"file"`
	Status   string `json:"status"`
	Memories int    `json:"memories"`
	Error    string `json:"error,omitempty"`
}

func printUploadResults(results []uploader.UploadResult) {
	views := lo.Map(results, func(r uploader.UploadResult, _ int) uploadResultView {
		view := uploadResultView{File: r.File, Status: r.Status, Memories: len(r.Records)}
		if r.Err != nil {
			view.Error = r.Err.Error()
		}
		return view
	})

	if jsonFlag {
		printJSON(views)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tFILE\tMEMORIES\tERROR")
	failed := 0
	for _, view := range views {
		if view.Status != db.StatusSuccess {
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", view.Status, view.File, view.Memories, view.Error)
	}
	_ = w.Flush()
	fmt.Printf("\n%d files: %d succeeded, %d failed\n", len(views), len(views)-failed, failed)
}

func printCountTable(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Println("\n" + title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	keys := lo.Keys(counts)
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "  %s\t%d\n", key, counts[key])
	}
	_ = w.Flush()
}

// preview collapses newlines and truncates long memories so table rows
// stay on one line.
func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}
	return string(runes[:previewRunes-3]) + "..."
}

func formatDate(iso string) string {
	if t, err := time.Parse(time.RFC3339, iso); err == nil {
		return t.Format("2006-01-02")
	}
	if len(iso) >= 10 {
		return iso[:10]
	}
	return iso
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *score)
}
