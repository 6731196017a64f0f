package brief

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Brief is the canonical project request used as matching input.
type Brief struct {
	ID       uuid.UUID
	ClientID uuid.UUID

	Category       string
	TimelineBucket string
	BudgetBucket   string
	Description    string

	Styles      []string
	Industry    string
	Involvement string

	CreatedAt time.Time
}

// Timeline buckets and their day allotments.
const (
	TimelineRush     = "rush"
	TimelineStandard = "standard"
	TimelineFlexible = "flexible"
)

var timelineDays = map[string]int{
	TimelineRush:     7,
	TimelineStandard: 28,
	TimelineFlexible: 60,
}

// TimelineAllotmentDays returns the day budget for a timeline bucket.
func TimelineAllotmentDays(bucket string) (int, bool) {
	d, ok := timelineDays[bucket]
	return d, ok
}

// Budget buckets, ordered from smallest to largest.
const (
	BudgetLow     = "low"
	BudgetMid     = "mid"
	BudgetHigh    = "high"
	BudgetPremium = "premium"
)

var budgetOrder = map[string]int{
	BudgetLow:     0,
	BudgetMid:     1,
	BudgetHigh:    2,
	BudgetPremium: 3,
}

// Designer project-size buckets, ordered.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

var sizeOrder = map[string]int{
	SizeSmall:  0,
	SizeMedium: 1,
	SizeLarge:  2,
}

// BudgetSizeDistance returns the ordinal distance between a brief budget
// bucket and a designer's preferred project size: 0 means in range, 1 means
// adjacent. Unknown buckets report ok=false.
func BudgetSizeDistance(budgetBucket, sizeBucket string) (int, bool) {
	b, ok := budgetOrder[budgetBucket]
	if !ok {
		return 0, false
	}
	s, ok := sizeOrder[sizeBucket]
	if !ok {
		return 0, false
	}
	// premium collapses onto large
	if b > 2 {
		b = 2
	}
	d := b - s
	if d < 0 {
		d = -d
	}
	return d, true
}

// MissingFieldsError reports required canonical dimensions absent from a raw
// brief payload after alias reconciliation.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("brief missing required fields: %s", strings.Join(e.Fields, ", "))
}

var ErrMissingBriefFields = errors.New("brief missing required fields")

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingBriefFields
}

// Canonical field keys and their legacy aliases. Briefs submitted by older
// frontends arrive with the legacy names; reconciliation happens here and
// nowhere else.
var fieldAliases = map[string][]string{
	"category":        {"project_type", "projectType", "design_category"},
	"timeline_bucket": {"timeline", "deadline", "turnaround"},
	"budget_bucket":   {"budget", "budget_range", "price_range"},
	"description":     {"project_description", "details", "brief_text"},
	"styles":          {"style_keywords", "preferred_styles", "styles_requested"},
	"industry":        {"target_industry", "target_audience", "audience"},
	"involvement":     {"working_style", "communication_preference", "collaboration_preference"},
}

var requiredFields = []string{"category", "timeline_bucket", "budget_bucket", "description"}

// Normalize reconciles a raw brief payload (legacy or current key set) into a
// canonical Brief. It has no side effects; a payload that already uses
// canonical keys passes through unchanged.
func Normalize(raw map[string]any) (Brief, error) {
	resolved := make(map[string]any, len(fieldAliases))
	for canonical, aliases := range fieldAliases {
		if v, ok := lookup(raw, canonical); ok {
			resolved[canonical] = v
			continue
		}
		for _, a := range aliases {
			if v, ok := lookup(raw, a); ok {
				resolved[canonical] = v
				break
			}
		}
	}

	b := Brief{
		Category:       keyword(resolved["category"]),
		TimelineBucket: keyword(resolved["timeline_bucket"]),
		BudgetBucket:   keyword(resolved["budget_bucket"]),
		Description:    text(resolved["description"]),
		Styles:         keywordList(resolved["styles"]),
		Industry:       keyword(resolved["industry"]),
		Involvement:    keyword(resolved["involvement"]),
	}

	var missing []string
	if b.Category == "" {
		missing = append(missing, "category")
	}
	if b.TimelineBucket == "" {
		missing = append(missing, "timeline_bucket")
	}
	if b.BudgetBucket == "" {
		missing = append(missing, "budget_bucket")
	}
	if b.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Brief{}, &MissingFieldsError{Fields: missing}
	}

	return b, nil
}

// Fields renders a Brief back into its canonical payload form. Normalize on
// the result reproduces the Brief exactly.
func (b Brief) Fields() map[string]any {
	m := map[string]any{
		"category":        b.Category,
		"timeline_bucket": b.TimelineBucket,
		"budget_bucket":   b.BudgetBucket,
		"description":     b.Description,
	}
	if len(b.Styles) > 0 {
		m["styles"] = append([]string(nil), b.Styles...)
	}
	if b.Industry != "" {
		m["industry"] = b.Industry
	}
	if b.Involvement != "" {
		m["involvement"] = b.Involvement
	}
	return m
}

func lookup(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, false
		}
	case []any:
		if len(t) == 0 {
			return nil, false
		}
	case []string:
		if len(t) == 0 {
			return nil, false
		}
	}
	return v, true
}

func keyword(v any) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}

func text(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func keywordList(v any) []string {
	var items []string
	switch t := v.(type) {
	case []string:
		items = t
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				items = append(items, s)
			}
		}
	case string:
		items = strings.Split(t, ",")
	default:
		return nil
	}

	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		kw := strings.ToLower(strings.TrimSpace(it))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
