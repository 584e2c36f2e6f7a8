package searcher

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/EternisAI/recollect/pkg/helpers"
	"github.com/EternisAI/recollect/pkg/mem0"
)

const (
	// seedMemoryCount is how many week memories feed the related-history query.
	seedMemoryCount = 5
	// relatedLimit caps the related-history results in a weekly report.
	relatedLimit = 20
	// statsLimit caps the listing a stats aggregation is computed from.
	statsLimit = 1000
)

// WeeklyReport is the two-phase result for one reporting week.
type WeeklyReport struct {
	WeekStart       string        `json:"week_start"`
	WeekEnd         string        `json:"week_end"`
	WeekMemories    []mem0.Record `json:"week_memories"`
	RelatedMemories []mem0.Record `json:"related_memories"`
	Summary         ReportSummary `json:"summary"`
}

// ReportSummary carries the record counts of a weekly report.
type ReportSummary struct {
	TotalCurrent int `json:"total_current"`
	TotalRelated int `json:"total_related"`
}

// WeekWindow returns the Monday-to-Sunday window weeksBack whole weeks before
// now. weeksBack=1 is the most recently completed week, not a rolling seven
// days.
func WeekWindow(now time.Time, weeksBack int) mem0.TimeRange {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := now.AddDate(0, 0, -(daysSinceMonday + 7*weeksBack))
	end := start.AddDate(0, 0, 6)
	return mem0.TimeRange{
		Start: start.Format(mem0.DateLayout),
		End:   end.Format(mem0.DateLayout),
	}
}

// WeeklyReport collects the memories of one reporting week plus related
// history from before it. The related query is seeded with the week's own
// content, so it is skipped entirely when the week is empty; the two backend
// calls are strictly sequential.
func (s *Searcher) WeeklyReport(ctx context.Context, userID string, weeksBack int) (*WeeklyReport, error) {
	uid := s.userID(userID)
	window := WeekWindow(s.now(), weeksBack)
	s.logger.Info("Collecting weekly report data",
		"user", uid, "week_start", window.Start, "week_end", window.End)

	week, err := s.SearchByTimeRange(ctx, TimeRangeQuery{
		UserID: uid,
		Start:  window.Start,
		End:    window.End,
		Limit:  s.config.SearchMaxLimit,
	})
	if err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		WeekStart:       window.Start,
		WeekEnd:         window.End,
		WeekMemories:    week,
		RelatedMemories: []mem0.Record{},
	}

	if seed := weekSeed(week); seed != "" {
		related, err := s.SearchByQuery(ctx, seed, QueryOptions{
			UserID: uid,
			Limit:  relatedLimit,
			Extra:  []mem0.Filter{mem0.CreatedBefore(window.Start)},
		})
		if err != nil {
			return nil, err
		}
		report.RelatedMemories = related
	}

	report.Summary = ReportSummary{
		TotalCurrent: len(report.WeekMemories),
		TotalRelated: len(report.RelatedMemories),
	}
	return report, nil
}

// weekSeed joins the first few week memories into the related-history query
// text, empty when there is nothing usable to seed with.
func weekSeed(records []mem0.Record) string {
	head := records[:min(len(records), seedMemoryCount)]
	texts := lo.Map(head, func(r mem0.Record, _ int) string { return r.Memory })
	seed := strings.TrimSpace(strings.Join(texts, " "))
	return truncateRunes(seed, maxQueryRunes)
}

// UserStats aggregates one user's stored memories.
type UserStats struct {
	UserID           string         `json:"user_id"`
	TotalMemories    int            `json:"total_memories"`
	Sources          map[string]int `json:"sources"`
	ExtractModes     map[string]int `json:"extract_modes"`
	RecentMemories7d int            `json:"recent_memories_7d"`
	GeneratedAt      string         `json:"generated_at"`
}

// UserStats counts a user's memories by parse source and extract mode and
// how many of them landed in the last seven days.
func (s *Searcher) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	uid := s.userID(userID)

	filter, err := mem0.NewFilterBuilder(uid).Build()
	if err != nil {
		return nil, err
	}
	all, err := s.backend.GetAll(ctx, filter, statsLimit)
	if err != nil {
		return nil, err
	}

	sources := lo.CountValuesBy(all, func(r mem0.Record) string {
		return metadataString(r.Metadata, "source")
	})
	modes := lo.CountValuesBy(all, func(r mem0.Record) string {
		return metadataString(r.Metadata, "extract_mode")
	})

	recent, err := s.SearchByTimeRange(ctx, TimeRangeQuery{
		UserID:   uid,
		DaysBack: helpers.Ptr(7),
		Limit:    statsLimit,
	})
	if err != nil {
		return nil, err
	}

	return &UserStats{
		UserID:           uid,
		TotalMemories:    len(all),
		Sources:          sources,
		ExtractModes:     modes,
		RecentMemories7d: len(recent),
		GeneratedAt:      s.now().Format(time.RFC3339),
	}, nil
}

func metadataString(metadata map[string]any, key string) string {
	if value, ok := metadata[key].(string); ok && value != "" {
		return value
	}
	return "unknown"
}
