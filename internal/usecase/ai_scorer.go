package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"designmatch/internal/config"
	"designmatch/internal/domain/brief"
	"designmatch/internal/domain/designer"
	"designmatch/internal/domain/match"
	"designmatch/internal/domain/scoring"
	"designmatch/internal/infrastructure/completion"
	"designmatch/internal/pkg/retry"
	"designmatch/internal/pkg/workerpool"
)

// ErrBadVerdict marks a completion response that is not valid JSON of the
// expected schema. It is never retried.
var ErrBadVerdict = errors.New("unparseable scoring verdict")

// aiSystemPrompt states the rubric once; the per-candidate details go in the
// user message.
const aiSystemPrompt = `You are a design marketplace matching engine. You evaluate how well one designer fits one client project brief.

Scoring rubric (maximum 100 points):
- Category fit, 30 points. Full 30 when the brief category is one of the designer's primary categories; 18 when it appears only in the secondary categories. If the category appears in NEITHER set, the designer is disqualified: set "categoryMatch" to false and "score" to 0.
- Style alignment, 25 points, proportional to how many of the requested style keywords the designer works in.
- Budget fit, 15 points. Full when the budget bucket falls inside the designer's preferred project size; partial for adjacent buckets; zero otherwise.
- Timeline fit, 15 points. Full when the designer's typical turnaround for the category fits the timeline allotment; scale down as the gap grows.
- Industry fit, 10 points. Full when the brief's industry is among the designer's preferred industries; partial otherwise.
- Working style, 5 points. Full only on an exact collaboration preference match.

Keep scores realistic. Most decent fits land between 50 and 80; reserve scores above 90 for exceptional alignment on every dimension.

Respond with ONLY valid JSON, no other text, matching exactly:
{"score": 0, "confidence": "low|medium|high", "categoryMatch": true, "reasons": ["..."], "personalizedReasons": ["..."], "scoreBreakdown": {"category": 0, "style": 0, "budget": 0, "timeline": 0, "industry": 0, "workingStyle": 0}}`

type aiVerdict struct {
	Score               *float64        `json:"score"`
	Confidence          string          `json:"confidence"`
	CategoryMatch       *bool           `json:"categoryMatch"`
	Reasons             []string        `json:"reasons"`
	PersonalizedReasons []string        `json:"personalizedReasons"`
	ScoreBreakdown      match.Breakdown `json:"scoreBreakdown"`
}

// AIScorer ranks candidates by asking the completion API to apply the rubric.
// Calls fan out over a bounded worker pool; transient provider failures are
// retried with backoff, and when retries exhaust the scorer either falls back
// to the deterministic rules (fallback mode) or fails the whole request. It
// never fabricates a score.
type AIScorer struct {
	client   completion.Client
	fallback bool

	temperature float64
	maxTokens   int64

	maxConcurrent int
	rateLimit     int
	retryCfg      retry.Config

	logger *zap.Logger
}

func NewAIScorer(client completion.Client, mcfg config.MatchingConfig, acfg config.AnthropicConfig, logger *zap.Logger) *AIScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	rcfg := retry.DefaultConfig()
	if mcfg.RetryAttempts > 0 {
		rcfg.MaxAttempts = mcfg.RetryAttempts
	}
	maxConcurrent := mcfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &AIScorer{
		client:        client,
		fallback:      mcfg.ScorerMode == config.ScorerModeAIWithFallback,
		temperature:   acfg.Temperature,
		maxTokens:     acfg.MaxTokens,
		maxConcurrent: maxConcurrent,
		rateLimit:     mcfg.AIRateLimit,
		retryCfg:      rcfg,
		logger:        logger,
	}
}

// ScoreCandidates scores every candidate and returns the qualified ones,
// unordered. Without fallback, the first candidate whose scoring fails
// permanently fails the whole batch.
func (s *AIScorer) ScoreCandidates(ctx context.Context, b brief.Brief, candidates []designer.Designer) ([]scoring.Ranked, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	type slot struct {
		ranked    scoring.Ranked
		qualified bool
		err       error
	}
	slots := make([]slot, len(candidates))

	pool := workerpool.New(s.maxConcurrent, len(candidates))
	if s.rateLimit > 0 {
		pool.SetRateLimit(s.rateLimit)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range candidates {
			i := i
			pool.Submit(func(taskCtx context.Context) error {
				r, ok, err := s.scoreOne(taskCtx, b, candidates[i])
				slots[i] = slot{ranked: r, qualified: ok, err: err}
				return err
			})
		}
		pool.Close()
	}()

	for range pool.Run(ctx) {
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]scoring.Ranked, 0, len(candidates))
	for _, sl := range slots {
		if sl.err != nil {
			return nil, sl.err
		}
		if sl.qualified {
			out = append(out, sl.ranked)
		}
	}
	return out, nil
}

func (s *AIScorer) scoreOne(ctx context.Context, b brief.Brief, d designer.Designer) (scoring.Ranked, bool, error) {
	text, err := retry.DoVal(ctx, s.retryCfg, func(ctx context.Context) (string, error) {
		return s.client.Complete(ctx, completion.Request{
			System:      aiSystemPrompt,
			Prompt:      buildCandidatePrompt(b, d),
			Temperature: s.temperature,
			MaxTokens:   s.maxTokens,
		})
	})
	if err == nil {
		var v aiVerdict
		v, err = parseVerdict(text)
		if err == nil {
			return verdictToRanked(v, d), v.CategoryMatch == nil || *v.CategoryMatch, nil
		}
		s.logger.Error("unusable completion verdict",
			zap.Stringer("brief_id", b.ID),
			zap.Stringer("designer_id", d.ID),
			zap.String("raw_response", text),
			zap.Error(err),
		)
	} else {
		s.logger.Error("completion call failed",
			zap.Stringer("brief_id", b.ID),
			zap.Stringer("designer_id", d.ID),
			zap.Error(err),
		)
	}

	if ctx.Err() != nil {
		return scoring.Ranked{}, false, ctx.Err()
	}

	if !s.fallback {
		return scoring.Ranked{}, false, err
	}

	// Deterministic substitute, visibly marked: AIAnalyzed stays false.
	res, ok := scoring.Score(b, d)
	if !ok {
		return scoring.Ranked{}, false, nil
	}
	return scoring.Ranked{Designer: d, Result: res}, true, nil
}

func verdictToRanked(v aiVerdict, d designer.Designer) scoring.Ranked {
	score := *v.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	confidence := v.Confidence
	if confidence == "" {
		confidence = match.ConfidenceForScore(score)
	}
	return scoring.Ranked{
		Designer: d,
		Result: scoring.Result{
			Score:      score,
			Confidence: confidence,
			Breakdown:  v.ScoreBreakdown,
			Reasons:    v.Reasons,
		},
		AIAnalyzed:          true,
		PersonalizedReasons: v.PersonalizedReasons,
	}
}

func buildCandidatePrompt(b brief.Brief, d designer.Designer) string {
	var sb strings.Builder

	sb.WriteString("Project brief:\n")
	fmt.Fprintf(&sb, "- category: %s\n", b.Category)
	fmt.Fprintf(&sb, "- timeline bucket: %s", b.TimelineBucket)
	if days, ok := brief.TimelineAllotmentDays(b.TimelineBucket); ok {
		fmt.Fprintf(&sb, " (%d days)", days)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "- budget bucket: %s\n", b.BudgetBucket)
	if len(b.Styles) > 0 {
		fmt.Fprintf(&sb, "- requested styles: %s\n", strings.Join(b.Styles, ", "))
	}
	if b.Industry != "" {
		fmt.Fprintf(&sb, "- industry: %s\n", b.Industry)
	}
	if b.Involvement != "" {
		fmt.Fprintf(&sb, "- client involvement preference: %s\n", b.Involvement)
	}
	fmt.Fprintf(&sb, "- description: %s\n", b.Description)

	sb.WriteString("\nDesigner profile:\n")
	fmt.Fprintf(&sb, "- primary categories: %s\n", strings.Join(d.PrimaryCategories, ", "))
	fmt.Fprintf(&sb, "- secondary categories: %s\n", strings.Join(d.SecondaryCategories, ", "))
	fmt.Fprintf(&sb, "- style keywords: %s\n", strings.Join(d.StyleKeywords, ", "))
	fmt.Fprintf(&sb, "- preferred industries: %s\n", strings.Join(d.PreferredIndustries, ", "))
	fmt.Fprintf(&sb, "- preferred project size: %s\n", d.PreferredProjectSize)
	if turnaround, ok := d.TurnaroundFor(b.Category); ok {
		fmt.Fprintf(&sb, "- typical turnaround for %s: %d days\n", b.Category, turnaround)
	}
	fmt.Fprintf(&sb, "- collaboration style: %s\n", d.CollaborationStyle)
	fmt.Fprintf(&sb, "- rating: %.1f, completed projects: %d, years of experience: %d\n",
		d.Rating, d.CompletedProjects, d.YearsExperience)

	return sb.String()
}

// parseVerdict extracts and validates the JSON verdict. The model is told to
// emit JSON only, but surrounding prose is tolerated.
func parseVerdict(text string) (aiVerdict, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return aiVerdict{}, fmt.Errorf("%w: no JSON object", ErrBadVerdict)
	}

	var v aiVerdict
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return aiVerdict{}, fmt.Errorf("%w: %v", ErrBadVerdict, err)
	}

	if v.Score == nil {
		return aiVerdict{}, fmt.Errorf("%w: missing score", ErrBadVerdict)
	}
	switch v.Confidence {
	case "", match.ConfidenceLow, match.ConfidenceMedium, match.ConfidenceHigh:
	default:
		return aiVerdict{}, fmt.Errorf("%w: bad confidence %q", ErrBadVerdict, v.Confidence)
	}

	return v, nil
}
