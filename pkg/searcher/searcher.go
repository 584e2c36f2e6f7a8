package searcher

import (
	"context"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/EternisAI/recollect/pkg/config"
	"github.com/EternisAI/recollect/pkg/mem0"
)

// maxQueryRunes caps the text handed to a semantic query.
const maxQueryRunes = 500

// Backend is the slice of the memory client the searcher needs.
type Backend interface {
	Search(ctx context.Context, query string, filter mem0.Filter, limit int) ([]mem0.Record, error)
	GetAll(ctx context.Context, filter mem0.Filter, limit int) ([]mem0.Record, error)
}

// Searcher orchestrates user-scoped queries against the memory backend.
type Searcher struct {
	backend Backend
	config  *config.Config
	logger  *clog.Logger
	now     func() time.Time
}

func NewSearcher(backend Backend, cfg *config.Config, logger *clog.Logger) *Searcher {
	if logger == nil {
		logger = clog.Default()
	}
	return &Searcher{
		backend: backend,
		config:  cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// QueryOptions tunes a semantic search. Zero values fall back to the
// configured defaults; Extra clauses are appended to the user scope.
type QueryOptions struct {
	UserID string
	Limit  int
	Extra  []mem0.Filter
}

// SearchByQuery runs a semantic search scoped to one user.
func (s *Searcher) SearchByQuery(ctx context.Context, query string, opts QueryOptions) ([]mem0.Record, error) {
	userID := s.userID(opts.UserID)
	limit := s.limit(opts.Limit)

	builder := mem0.NewFilterBuilder(userID)
	for _, clause := range opts.Extra {
		builder.WithClause(clause)
	}
	filter, err := builder.Build()
	if err != nil {
		return nil, err
	}

	records, err := s.backend.Search(ctx, query, filter, limit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Search finished", "query", query, "user", userID, "results", len(records))
	return records, nil
}

// TimeRangeQuery restricts results to a date window, given either as
// DaysBack from today or as an explicit Start and End (both required).
// A Query switches the backend call from listing to semantic search.
type TimeRangeQuery struct {
	UserID   string
	DaysBack *int
	Start    string
	End      string
	Query    string
	Limit    int
}

// SearchByTimeRange lists or searches memories created inside a date window.
func (s *Searcher) SearchByTimeRange(ctx context.Context, q TimeRangeQuery) ([]mem0.Record, error) {
	userID := s.userID(q.UserID)
	limit := s.limit(q.Limit)

	window, err := s.resolveRange(q)
	if err != nil {
		return nil, err
	}

	filter, err := mem0.NewFilterBuilder(userID).WithTimeRange(window).Build()
	if err != nil {
		return nil, err
	}

	var records []mem0.Record
	if strings.TrimSpace(q.Query) != "" {
		records, err = s.backend.Search(ctx, q.Query, filter, limit)
	} else {
		records, err = s.backend.GetAll(ctx, filter, limit)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Time range query finished",
		"user", userID, "start", window.Start, "end", window.End, "results", len(records))
	return records, nil
}

func (s *Searcher) resolveRange(q TimeRangeQuery) (mem0.TimeRange, error) {
	if q.DaysBack != nil {
		end := s.now()
		start := end.AddDate(0, 0, -*q.DaysBack)
		return mem0.TimeRange{
			Start: start.Format(mem0.DateLayout),
			End:   end.Format(mem0.DateLayout),
		}, nil
	}
	if q.Start == "" || q.End == "" {
		return mem0.TimeRange{}, &mem0.ValidationError{
			Reason: "either days_back or both start and end dates are required",
		}
	}
	return mem0.TimeRange{Start: q.Start, End: q.End}, nil
}

// RelatedOptions tunes a content-similarity search. ExcludeRange removes a
// date window from the results, typically the window the content came from.
type RelatedOptions struct {
	UserID       string
	Limit        int
	ExcludeRange *mem0.TimeRange
}

// SearchRelated finds memories similar to content, which is truncated to
// maxQueryRunes before querying.
func (s *Searcher) SearchRelated(ctx context.Context, content string, opts RelatedOptions) ([]mem0.Record, error) {
	userID := s.userID(opts.UserID)
	limit := s.limit(opts.Limit)

	builder := mem0.NewFilterBuilder(userID)
	if opts.ExcludeRange != nil {
		builder.WithExclusion(*opts.ExcludeRange)
	}
	filter, err := builder.Build()
	if err != nil {
		return nil, err
	}

	return s.backend.Search(ctx, truncateRunes(content, maxQueryRunes), filter, limit)
}

func (s *Searcher) userID(userID string) string {
	if userID != "" {
		return userID
	}
	return s.config.DefaultUserID
}

func (s *Searcher) limit(limit int) int {
	if limit > 0 {
		return limit
	}
	return s.config.SearchDefaultLimit
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
