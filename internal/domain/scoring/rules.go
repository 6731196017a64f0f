package scoring

import (
	"fmt"
	"sort"
	"strings"

	"designmatch/internal/domain/brief"
	"designmatch/internal/domain/designer"
	"designmatch/internal/domain/match"
)

// Rubric weights. The sum of the maxima is 100; these are the canonical
// weights for both the deterministic scorer and the rubric handed to the
// completion model.
const (
	WeightCategory     = 30.0
	WeightStyle        = 25.0
	WeightBudget       = 15.0
	WeightTimeline     = 15.0
	WeightIndustry     = 10.0
	WeightWorkingStyle = 5.0

	// Secondary-category-only matches earn a reduced fraction of the
	// category weight.
	secondaryCategoryScore = 18.0

	// Adjacent budget/size buckets earn partial credit.
	adjacentBudgetScore = 8.0

	// Industry mismatch still earns partial credit; an unknown turnaround
	// earns half the timeline weight.
	partialIndustryScore   = 5.0
	unknownTurnaroundScore = 7.5
)

// Result is a scored designer-brief pairing.
type Result struct {
	Score      float64
	Confidence string
	Breakdown  match.Breakdown
	Reasons    []string
}

// Score evaluates one candidate against a canonical brief. The second return
// is false when the candidate is disqualified (brief category absent from
// both specialty sets); no score is computed in that case.
func Score(b brief.Brief, d designer.Designer) (Result, bool) {
	if b.Category == "" {
		return Result{}, false
	}

	primary := d.HasPrimaryCategory(b.Category)
	secondary := d.HasSecondaryCategory(b.Category)
	if !primary && !secondary {
		return Result{}, false
	}

	var bd match.Breakdown
	reasons := make([]string, 0, 6)

	if primary {
		bd.Category = WeightCategory
		reasons = append(reasons, fmt.Sprintf("Specializes in %s projects", b.Category))
	} else {
		bd.Category = secondaryCategoryScore
		reasons = append(reasons, fmt.Sprintf("Works in %s as a secondary specialty", b.Category))
	}

	bd.Style, reasons = styleScore(b, d, reasons)
	bd.Budget, reasons = budgetScore(b, d, reasons)
	bd.Timeline, reasons = timelineScore(b, d, reasons)
	bd.Industry, reasons = industryScore(b, d, reasons)
	bd.WorkingStyle, reasons = workingStyleScore(b, d, reasons)

	total := bd.Category + bd.Style + bd.Budget + bd.Timeline + bd.Industry + bd.WorkingStyle
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return Result{
		Score:      total,
		Confidence: match.ConfidenceForScore(total),
		Breakdown:  bd,
		Reasons:    reasons,
	}, true
}

func styleScore(b brief.Brief, d designer.Designer, reasons []string) (float64, []string) {
	if len(b.Styles) == 0 {
		return WeightStyle, append(reasons, "No specific styles requested")
	}

	keywords := make(map[string]struct{}, len(d.StyleKeywords))
	for _, kw := range d.StyleKeywords {
		keywords[kw] = struct{}{}
	}

	shared := make([]string, 0, len(b.Styles))
	for _, s := range b.Styles {
		if _, ok := keywords[s]; ok {
			shared = append(shared, s)
		}
	}

	score := WeightStyle * float64(len(shared)) / float64(len(b.Styles))
	if len(shared) > 0 {
		reasons = append(reasons, fmt.Sprintf("Style overlap: %s", strings.Join(shared, ", ")))
	}
	return score, reasons
}

func budgetScore(b brief.Brief, d designer.Designer, reasons []string) (float64, []string) {
	dist, ok := brief.BudgetSizeDistance(b.BudgetBucket, d.PreferredProjectSize)
	if !ok {
		return 0, reasons
	}
	switch dist {
	case 0:
		return WeightBudget, append(reasons, "Budget fits preferred project size")
	case 1:
		return adjacentBudgetScore, append(reasons, "Budget is close to preferred project size")
	default:
		return 0, reasons
	}
}

func timelineScore(b brief.Brief, d designer.Designer, reasons []string) (float64, []string) {
	allot, ok := brief.TimelineAllotmentDays(b.TimelineBucket)
	if !ok {
		return 0, reasons
	}

	turnaround, ok := d.TurnaroundFor(b.Category)
	if !ok {
		return unknownTurnaroundScore, reasons
	}

	if turnaround <= allot {
		return WeightTimeline, append(reasons, fmt.Sprintf("Typical turnaround of %d days fits the timeline", turnaround))
	}

	// Scaled down as the gap grows.
	score := WeightTimeline * float64(allot) / float64(turnaround)
	return score, reasons
}

func industryScore(b brief.Brief, d designer.Designer, reasons []string) (float64, []string) {
	if b.Industry == "" {
		return partialIndustryScore, reasons
	}
	for _, ind := range d.PreferredIndustries {
		if ind == b.Industry {
			return WeightIndustry, append(reasons, fmt.Sprintf("Experienced with the %s industry", b.Industry))
		}
	}
	return partialIndustryScore, reasons
}

func workingStyleScore(b brief.Brief, d designer.Designer, reasons []string) (float64, []string) {
	if b.Involvement == "" || d.CollaborationStyle == "" {
		return 0, reasons
	}
	if b.Involvement == d.CollaborationStyle {
		return WeightWorkingStyle, append(reasons, "Collaboration style matches your preference")
	}
	return 0, reasons
}

// Ranked pairs a candidate with its score for ordering.
type Ranked struct {
	Designer designer.Designer
	Result   Result

	// AIAnalyzed marks results produced by the completion model.
	AIAnalyzed bool

	// PersonalizedReasons is populated only by the AI scorer.
	PersonalizedReasons []string
}

// SortRanked orders candidates best-first. Ties on score break by rating,
// then completed project count, then earliest profile creation, so identical
// inputs always produce identical rankings.
func SortRanked(items []Ranked) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		if a.Designer.Rating != b.Designer.Rating {
			return a.Designer.Rating > b.Designer.Rating
		}
		if a.Designer.CompletedProjects != b.Designer.CompletedProjects {
			return a.Designer.CompletedProjects > b.Designer.CompletedProjects
		}
		return a.Designer.CreatedAt.Before(b.Designer.CreatedAt)
	})
}
