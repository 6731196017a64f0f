package brief

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize_CanonicalKeys(t *testing.T) {
	b, err := Normalize(map[string]any{
		"category":        "Logo",
		"timeline_bucket": "rush",
		"budget_bucket":   "mid",
		"description":     "A bold coffee brand logo",
		"styles":          []any{"Minimal", "modern"},
		"industry":        "food",
		"involvement":     "collaborative",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.Category != "logo" {
		t.Fatalf("expected lowercased category, got %q", b.Category)
	}
	if !reflect.DeepEqual(b.Styles, []string{"minimal", "modern"}) {
		t.Fatalf("unexpected styles: %v", b.Styles)
	}
}

func TestNormalize_LegacyAliases(t *testing.T) {
	b, err := Normalize(map[string]any{
		"project_type":             "branding",
		"deadline":                 "standard",
		"price_range":              "high",
		"brief_text":               "Full rebrand",
		"style_keywords":           []string{"retro"},
		"target_audience":          "fintech",
		"communication_preference": "hands_off",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.Category != "branding" {
		t.Fatalf("category not resolved from project_type: %q", b.Category)
	}
	if b.TimelineBucket != "standard" || b.BudgetBucket != "high" {
		t.Fatalf("legacy buckets not resolved: %q %q", b.TimelineBucket, b.BudgetBucket)
	}
	if b.Industry != "fintech" || b.Involvement != "hands_off" {
		t.Fatalf("legacy industry/involvement not resolved: %q %q", b.Industry, b.Involvement)
	}
}

func TestNormalize_CanonicalWinsOverAlias(t *testing.T) {
	b, err := Normalize(map[string]any{
		"category":        "logo",
		"project_type":    "web",
		"timeline_bucket": "rush",
		"budget_bucket":   "low",
		"description":     "x",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.Category != "logo" {
		t.Fatalf("expected canonical key to win, got %q", b.Category)
	}
}

func TestNormalize_MissingFields(t *testing.T) {
	_, err := Normalize(map[string]any{
		"category": "logo",
		"styles":   []string{"minimal"},
	})
	if !errors.Is(err, ErrMissingBriefFields) {
		t.Fatalf("expected ErrMissingBriefFields, got %v", err)
	}

	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %T", err)
	}
	want := []string{"budget_bucket", "description", "timeline_bucket"}
	if !reflect.DeepEqual(missing.Fields, want) {
		t.Fatalf("expected missing %v, got %v", want, missing.Fields)
	}
}

func TestNormalize_EmptyStringIsMissing(t *testing.T) {
	_, err := Normalize(map[string]any{
		"category":        "  ",
		"timeline_bucket": "rush",
		"budget_bucket":   "low",
		"description":     "x",
	})
	if !errors.Is(err, ErrMissingBriefFields) {
		t.Fatalf("expected ErrMissingBriefFields, got %v", err)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize(map[string]any{
		"projectType":      "illustration",
		"turnaround":       "flexible",
		"budget_range":     "premium",
		"details":          "Children's book art",
		"preferred_styles": "Whimsical, hand-drawn, whimsical",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	second, err := Normalize(first.Fields())
	if err != nil {
		t.Fatalf("unexpected err on second pass: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalize not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if !reflect.DeepEqual(second.Styles, []string{"whimsical", "hand-drawn"}) {
		t.Fatalf("expected deduped styles, got %v", second.Styles)
	}
}

func TestTimelineAllotmentDays(t *testing.T) {
	cases := map[string]int{
		TimelineRush:     7,
		TimelineStandard: 28,
		TimelineFlexible: 60,
	}
	for bucket, want := range cases {
		got, ok := TimelineAllotmentDays(bucket)
		if !ok || got != want {
			t.Fatalf("bucket %q: expected %d, got %d (ok=%v)", bucket, want, got, ok)
		}
	}
	if _, ok := TimelineAllotmentDays("someday"); ok {
		t.Fatalf("unknown bucket should not resolve")
	}
}

func TestBudgetSizeDistance(t *testing.T) {
	cases := []struct {
		budget, size string
		dist         int
		ok           bool
	}{
		{BudgetLow, SizeSmall, 0, true},
		{BudgetMid, SizeSmall, 1, true},
		{BudgetHigh, SizeSmall, 2, true},
		{BudgetPremium, SizeLarge, 0, true},
		{BudgetPremium, SizeMedium, 1, true},
		{"gold", SizeSmall, 0, false},
		{BudgetLow, "huge", 0, false},
	}
	for _, c := range cases {
		dist, ok := BudgetSizeDistance(c.budget, c.size)
		if ok != c.ok || dist != c.dist {
			t.Fatalf("(%s,%s): expected (%d,%v), got (%d,%v)", c.budget, c.size, c.dist, c.ok, dist, ok)
		}
	}
}
