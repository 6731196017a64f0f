package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"designmatch/internal/config"
	"designmatch/internal/domain/brief"
	"designmatch/internal/domain/designer"
	"designmatch/internal/domain/match"
	"designmatch/internal/domain/scoring"
	"designmatch/internal/pkg/retry"
	"designmatch/internal/repository"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")

	ErrBriefNotFound = errors.New("brief not found")
	ErrMatchNotFound = errors.New("match not found")

	ErrMatchNotPending     = errors.New("match is not pending")
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrMatchingUnavailable means the scoring backend failed transiently
	// after retries and no fallback was allowed. The caller may retry later.
	ErrMatchingUnavailable = errors.New("matching temporarily unavailable")

	// ErrMatchingFailed means the scoring backend failed permanently (bad
	// credentials, unusable verdict). Retrying will not help.
	ErrMatchingFailed = errors.New("matching failed")
)

// Match request outcomes. NoDesigners means the category pool is empty before
// scoring; NoMatch means candidates existed but none cleared the minimum
// score. The two produce different client-facing messages.
const (
	OutcomeMatched     = "matched"
	OutcomeNoDesigners = "no_designers_in_category"
	OutcomeNoMatch     = "no_match_above_threshold"
)

const (
	msgNoDesigners = "No designers are available in this category yet. We will notify you when one joins."
	msgNoMatch     = "No designer cleared our quality bar for this brief. Try broadening the styles or timeline."
)

// MatchResult is the outcome of a match request. Brief is the normalized
// brief the candidates were scored against. Ranked is best-first and already
// filtered to the minimum score; Best is the persisted match for the top
// candidate, nil unless Outcome is OutcomeMatched.
type MatchResult struct {
	Outcome   string           `json:"outcome"`
	Message   string           `json:"message,omitempty"`
	BriefID   uuid.UUID        `json:"briefId"`
	Brief     brief.Brief      `json:"-"`
	Ranked    []scoring.Ranked `json:"ranked,omitempty"`
	Best      *match.Match     `json:"-"`
	FromCache bool             `json:"-"`
}

// CandidateScorer scores a candidate pool against a brief. The returned slice
// holds qualified candidates only, in no particular order.
type CandidateScorer interface {
	ScoreCandidates(ctx context.Context, b brief.Brief, candidates []designer.Designer) ([]scoring.Ranked, error)
}

// ResultCache stores ranked results keyed by brief so repeat requests skip
// re-scoring. A nil or unreachable cache degrades to scoring every time.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// MatchNotifier pushes a match-ready event to the client's live connections.
type MatchNotifier interface {
	MatchReady(clientID uuid.UUID, m match.Match)
}

type MatchUsecase interface {
	// MatchBrief scores all eligible candidates for the brief and returns the
	// full ranked list. refresh bypasses the cached result.
	MatchBrief(ctx context.Context, clientID, briefID uuid.UUID, refresh bool) (MatchResult, error)
	// BestMatch returns the single top candidate.
	BestMatch(ctx context.Context, clientID, briefID uuid.UUID) (MatchResult, error)
	GetMatch(ctx context.Context, clientID, matchID uuid.UUID) (match.Match, error)
	UnlockMatch(ctx context.Context, clientID, matchID uuid.UUID) (match.Match, error)
}

type Matcher struct {
	briefs    repository.BriefRepository
	designers repository.DesignerRepository
	matches   repository.MatchRepository

	ai       CandidateScorer
	cache    ResultCache
	notifier MatchNotifier

	cfg       config.MatchingConfig
	resultTTL time.Duration
	logger    *zap.Logger
}

func NewMatchUsecase(
	briefs repository.BriefRepository,
	designers repository.DesignerRepository,
	matches repository.MatchRepository,
	ai CandidateScorer,
	cache ResultCache,
	notifier MatchNotifier,
	cfg config.MatchingConfig,
	resultTTL time.Duration,
	logger *zap.Logger,
) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		briefs:    briefs,
		designers: designers,
		matches:   matches,
		ai:        ai,
		cache:     cache,
		notifier:  notifier,
		cfg:       cfg,
		resultTTL: resultTTL,
		logger:    logger,
	}
}

func (u *Matcher) MatchBrief(ctx context.Context, clientID, briefID uuid.UUID, refresh bool) (MatchResult, error) {
	return u.run(ctx, clientID, briefID, refresh)
}

func (u *Matcher) BestMatch(ctx context.Context, clientID, briefID uuid.UUID) (MatchResult, error) {
	res, err := u.run(ctx, clientID, briefID, false)
	if err != nil {
		return MatchResult{}, err
	}
	if len(res.Ranked) > 1 {
		res.Ranked = res.Ranked[:1]
	}
	return res, nil
}

func (u *Matcher) run(ctx context.Context, clientID, briefID uuid.UUID, refresh bool) (MatchResult, error) {
	if clientID == uuid.Nil {
		return MatchResult{}, ErrUnauthorized
	}
	if briefID == uuid.Nil {
		return MatchResult{}, ErrBriefNotFound
	}

	if u.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.cfg.RequestTimeout)
		defer cancel()
	}

	rec, err := u.briefs.FindByID(ctx, briefID)
	if err != nil {
		if errors.Is(err, repository.ErrBriefNotFound) {
			return MatchResult{}, ErrBriefNotFound
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return MatchResult{}, ctxErr
		}
		return MatchResult{}, ErrInternal
	}
	if rec.ClientID != clientID {
		// Not revealed as a permission problem.
		return MatchResult{}, ErrBriefNotFound
	}

	b, err := brief.Normalize(rec.Fields)
	if err != nil {
		return MatchResult{}, err
	}
	b.ID = rec.ID
	b.ClientID = rec.ClientID
	b.CreatedAt = rec.CreatedAt

	res, err := u.rankedResult(ctx, b, clientID, refresh)
	if err != nil {
		return MatchResult{}, err
	}
	res.Brief = b
	if res.Outcome != OutcomeMatched {
		return res, nil
	}

	best, err := u.persistBest(ctx, b, clientID, res.Ranked[0])
	if err != nil {
		return MatchResult{}, err
	}
	res.Best = &best
	return res, nil
}

func (u *Matcher) rankedResult(ctx context.Context, b brief.Brief, clientID uuid.UUID, refresh bool) (MatchResult, error) {
	key := resultCacheKey(b.ID)

	if u.cache != nil && !refresh {
		var cached MatchResult
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			cached.FromCache = true
			return cached, nil
		}
	}

	candidates, err := u.designers.FindCandidates(ctx, b.Category, b.ID, clientID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return MatchResult{}, ctxErr
		}
		u.logger.Error("candidate lookup failed", zap.Stringer("brief_id", b.ID), zap.Error(err))
		return MatchResult{}, ErrInternal
	}

	res := MatchResult{BriefID: b.ID}
	if len(candidates) == 0 {
		res.Outcome = OutcomeNoDesigners
		res.Message = msgNoDesigners
	} else {
		ranked, err := u.score(ctx, b, candidates)
		if err != nil {
			return MatchResult{}, err
		}

		scoring.SortRanked(ranked)
		qualified := ranked[:0]
		for _, r := range ranked {
			if r.Result.Score >= u.cfg.MinScore {
				qualified = append(qualified, r)
			}
		}

		if len(qualified) == 0 {
			res.Outcome = OutcomeNoMatch
			res.Message = msgNoMatch
		} else {
			res.Outcome = OutcomeMatched
			res.Ranked = qualified
		}
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, res, u.resultTTL); err != nil {
			u.logger.Warn("result cache write failed", zap.Stringer("brief_id", b.ID), zap.Error(err))
		}
	}
	return res, nil
}

func (u *Matcher) score(ctx context.Context, b brief.Brief, candidates []designer.Designer) ([]scoring.Ranked, error) {
	if u.cfg.ScorerMode == config.ScorerModeRules || u.ai == nil {
		ranked := make([]scoring.Ranked, 0, len(candidates))
		for _, d := range candidates {
			if result, ok := scoring.Score(b, d); ok {
				ranked = append(ranked, scoring.Ranked{Designer: d, Result: result})
			}
		}
		return ranked, nil
	}

	ranked, err := u.ai.ScoreCandidates(ctx, b, candidates)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		u.logger.Error("candidate scoring failed", zap.Stringer("brief_id", b.ID), zap.Error(err))
		if errors.Is(err, ErrBadVerdict) || !retry.IsTransient(err) {
			return nil, fmt.Errorf("%w: %v", ErrMatchingFailed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMatchingUnavailable, err)
	}
	return ranked, nil
}

func (u *Matcher) persistBest(ctx context.Context, b brief.Brief, clientID uuid.UUID, top scoring.Ranked) (match.Match, error) {
	reasons := top.Result.Reasons
	if len(top.PersonalizedReasons) > 0 {
		reasons = top.PersonalizedReasons
	}

	persisted, err := u.matches.Insert(ctx, match.Match{
		BriefID:    b.ID,
		DesignerID: top.Designer.ID,
		ClientID:   clientID,
		Score:      top.Result.Score,
		Confidence: top.Result.Confidence,
		Reasons:    reasons,
		Breakdown:  top.Result.Breakdown,
		AIAnalyzed: top.AIAnalyzed,
		Status:     match.StatusPending,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return match.Match{}, ctxErr
		}
		u.logger.Error("match persistence failed", zap.Stringer("brief_id", b.ID), zap.Error(err))
		return match.Match{}, ErrInternal
	}

	if u.notifier != nil {
		u.notifier.MatchReady(clientID, persisted)
	}
	return persisted, nil
}

func (u *Matcher) GetMatch(ctx context.Context, clientID, matchID uuid.UUID) (match.Match, error) {
	if clientID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	m, err := u.matches.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, ErrInternal
	}
	if m.ClientID != clientID {
		return match.Match{}, ErrMatchNotFound
	}
	return m, nil
}

func (u *Matcher) UnlockMatch(ctx context.Context, clientID, matchID uuid.UUID) (match.Match, error) {
	if clientID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}

	// Ownership check first so foreign match IDs read as not-found.
	if _, err := u.GetMatch(ctx, clientID, matchID); err != nil {
		return match.Match{}, err
	}

	m, err := u.matches.Unlock(ctx, matchID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMatchNotFound):
			return match.Match{}, ErrMatchNotFound
		case errors.Is(err, repository.ErrMatchNotPending):
			return match.Match{}, ErrMatchNotPending
		case errors.Is(err, repository.ErrInsufficientCredits):
			return match.Match{}, ErrInsufficientCredits
		}
		return match.Match{}, ErrInternal
	}
	return m, nil
}

func resultCacheKey(briefID uuid.UUID) string {
	return "match:result:" + briefID.String()
}
