package mem0

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the fixed-width date format used in created_at filters.
const DateLayout = "2006-01-02"

// TimeRange is an inclusive date window with YYYY-MM-DD bounds.
type TimeRange struct {
	Start string
	End   string
}

// Validate checks both bounds against DateLayout and rejects inverted ranges.
func (r TimeRange) Validate() error {
	start, err := time.Parse(DateLayout, r.Start)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("start date %q is not YYYY-MM-DD", r.Start)}
	}
	end, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("end date %q is not YYYY-MM-DD", r.End)}
	}
	if start.After(end) {
		return &ValidationError{Reason: fmt.Sprintf("start date %s is after end date %s", r.Start, r.End)}
	}
	return nil
}

// Filter is a boolean tree over field predicates, marshaled to the backend's
// v2 filter shape: {"AND": [...]}, {"NOT": [...]}, or a single
// {field: value} object. The zero Filter marshals as an empty object.
type Filter struct {
	and   []Filter
	not   []Filter
	field string
	value any
}

// Eq matches records whose field equals v.
func Eq(field string, v any) Filter {
	return Filter{field: field, value: v}
}

// CreatedBetween matches records created inside r, both ends inclusive.
func CreatedBetween(r TimeRange) Filter {
	return Filter{field: "created_at", value: map[string]string{"gte": r.Start, "lte": r.End}}
}

// CreatedBefore matches records created strictly before date.
func CreatedBefore(date string) Filter {
	return Filter{field: "created_at", value: map[string]string{"lt": date}}
}

// And combines filters conjunctively.
func And(filters ...Filter) Filter {
	return Filter{and: filters}
}

// Not negates the conjunction of filters.
func Not(filters ...Filter) Filter {
	return Filter{not: filters}
}

func (f Filter) MarshalJSON() ([]byte, error) {
	switch {
	case len(f.and) > 0:
		return json.Marshal(map[string]any{"AND": f.and})
	case len(f.not) > 0:
		return json.Marshal(map[string]any{"NOT": f.not})
	case f.field != "":
		return json.Marshal(map[string]any{f.field: f.value})
	default:
		return []byte("{}"), nil
	}
}

// FilterBuilder accumulates clauses for a user-scoped query. Build always
// produces an outer AND whose first predicate is the user_id equality, so
// every query that leaves this package is scoped to one user.
type FilterBuilder struct {
	userID  string
	clauses []Filter
	err     error
}

func NewFilterBuilder(userID string) *FilterBuilder {
	return &FilterBuilder{userID: userID}
}

// WithTimeRange restricts results to records created inside r.
func (b *FilterBuilder) WithTimeRange(r TimeRange) *FilterBuilder {
	if b.err == nil {
		if err := r.Validate(); err != nil {
			b.err = err
			return b
		}
		b.clauses = append(b.clauses, CreatedBetween(r))
	}
	return b
}

// WithCreatedBefore restricts results to records created before date.
func (b *FilterBuilder) WithCreatedBefore(date string) *FilterBuilder {
	if b.err == nil {
		b.clauses = append(b.clauses, CreatedBefore(date))
	}
	return b
}

// WithExclusion removes records created inside r from the results.
func (b *FilterBuilder) WithExclusion(r TimeRange) *FilterBuilder {
	if b.err == nil {
		if err := r.Validate(); err != nil {
			b.err = err
			return b
		}
		b.clauses = append(b.clauses, Not(CreatedBetween(r)))
	}
	return b
}

// WithClause appends an arbitrary filter clause.
func (b *FilterBuilder) WithClause(f Filter) *FilterBuilder {
	if b.err == nil {
		b.clauses = append(b.clauses, f)
	}
	return b
}

func (b *FilterBuilder) Build() (Filter, error) {
	if b.err != nil {
		return Filter{}, b.err
	}
	if strings.TrimSpace(b.userID) == "" {
		return Filter{}, &ValidationError{Reason: "user_id is required"}
	}
	return And(append([]Filter{Eq("user_id", b.userID)}, b.clauses...)...), nil
}
