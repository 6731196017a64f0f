package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"designmatch/internal/config"
	"designmatch/internal/domain/brief"
	"designmatch/internal/domain/designer"
	"designmatch/internal/infrastructure/completion"
	"designmatch/internal/pkg/retry"

	"github.com/google/uuid"
)

type mockCompletionClient struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, req completion.Request) (string, error)
}

func (m *mockCompletionClient) Complete(_ context.Context, req completion.Request) (string, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	return m.fn(call, req)
}

func (m *mockCompletionClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testMatchingConfig(mode string) config.MatchingConfig {
	return config.MatchingConfig{
		ScorerMode:    mode,
		MinScore:      40,
		MaxConcurrent: 2,
		RetryAttempts: 3,
	}
}

func newTestAIScorer(client completion.Client, mode string) *AIScorer {
	s := NewAIScorer(client, testMatchingConfig(mode), config.AnthropicConfig{MaxTokens: 1024}, nil)
	s.retryCfg.InitialBackoff = time.Millisecond
	s.retryCfg.MaxBackoff = 2 * time.Millisecond
	return s
}

func aiTestBrief() brief.Brief {
	return brief.Brief{
		ID:             uuid.New(),
		Category:       "logo",
		TimelineBucket: brief.TimelineStandard,
		BudgetBucket:   brief.BudgetMid,
		Description:    "Coffee brand logo",
		Styles:         []string{"minimal"},
	}
}

func aiTestDesigner() designer.Designer {
	return designer.Designer{
		ID:                   uuid.New(),
		DisplayName:          "Ari",
		PrimaryCategories:    []string{"logo"},
		StyleKeywords:        []string{"minimal"},
		PreferredProjectSize: brief.SizeMedium,
		TurnaroundDays:       map[string]int{"logo": 10},
		IsVerified:           true,
		IsApproved:           true,
	}
}

const goodVerdict = `{"score": 82, "confidence": "high", "categoryMatch": true,
	"reasons": ["Strong category fit"], "personalizedReasons": ["Ari has shipped similar coffee brands"],
	"scoreBreakdown": {"category": 30, "style": 22, "budget": 15, "timeline": 15, "industry": 0, "workingStyle": 0}}`

func TestAIScorer_UsesModelVerdict(t *testing.T) {
	client := &mockCompletionClient{fn: func(int, completion.Request) (string, error) {
		return goodVerdict, nil
	}}
	s := newTestAIScorer(client, config.ScorerModeAIWithFallback)

	ranked, err := s.ScoreCandidates(context.Background(), aiTestBrief(), []designer.Designer{aiTestDesigner()})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected 1 ranked, got %d", len(ranked))
	}
	r := ranked[0]
	if !r.AIAnalyzed {
		t.Fatalf("expected AIAnalyzed=true")
	}
	if r.Result.Score != 82 || r.Result.Confidence != "high" {
		t.Fatalf("unexpected result: %+v", r.Result)
	}
	if len(r.PersonalizedReasons) != 1 {
		t.Fatalf("expected personalized reasons, got %v", r.PersonalizedReasons)
	}
}

func TestAIScorer_PromptCarriesRubricAndProfiles(t *testing.T) {
	var captured completion.Request
	client := &mockCompletionClient{fn: func(_ int, req completion.Request) (string, error) {
		captured = req
		return goodVerdict, nil
	}}
	s := newTestAIScorer(client, config.ScorerModeAI)

	if _, err := s.ScoreCandidates(context.Background(), aiTestBrief(), []designer.Designer{aiTestDesigner()}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, want := range []string{"Category fit, 30 points", "Style alignment, 25 points", "disqualified"} {
		if !strings.Contains(captured.System, want) {
			t.Fatalf("system prompt missing %q", want)
		}
	}
	for _, want := range []string{"category: logo", "requested styles: minimal", "typical turnaround for logo: 10 days"} {
		if !strings.Contains(captured.Prompt, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, captured.Prompt)
		}
	}
}

func TestAIScorer_ClampsOutOfRangeScore(t *testing.T) {
	client := &mockCompletionClient{fn: func(int, completion.Request) (string, error) {
		return `{"score": 140, "confidence": "high", "categoryMatch": true}`, nil
	}}
	s := newTestAIScorer(client, config.ScorerModeAI)

	ranked, err := s.ScoreCandidates(context.Background(), aiTestBrief(), []designer.Designer{aiTestDesigner()})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ranked[0].Result.Score != 100 {
		t.Fatalf("expected clamp to 100, got %v", ranked[0].Result.Score)
	}
}

func TestAIScorer_CategoryMismatchDisqualifies(t *testing.T) {
	client := &mockCompletionClient{fn: func(int, completion.Request) (string, error) {
		return `{"score": 0, "confidence": "low", "categoryMatch": false}`, nil
	}}
	s := newTestAIScorer(client, config.ScorerModeAI)

	ranked, err := s.ScoreCandidates(context.Background(), aiTestBrief(), []designer.Designer{aiTestDesigner()})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(ranked) != 0 {
		t.Fatalf("expected disqualified candidate to be dropped, got %d", len(ranked))
	}
}

func TestAIScorer_TransientErrorsRetryThenFallBack(t *testing.T) {
	client := &mockCompletionClient{fn: func(int, completion.Request) (string, error) {
		return "", retry.Transient(errors.New("upstream 500"), 500)
	}}
	s := newTestAIScorer(client, config.ScorerModeAIWithFallback)

	ranked, err := s.ScoreCandidates(context.Background(), aiTestBrief(), []designer.Designer{aiTestDesigner()})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := client.callCount(); got != 3 {
		t.Fatalf("expected 3 attempts before fallback, got %d", got)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected deterministic fallback result, got %d", len(ranked))
	}
	if ranked[0].AIAnalyzed {
		t.Fatalf("fallback result must not be marked AI analyzed")
	}
	if ranked[0].Result.Score <= 0 {
		t.Fatalf("fallback should produce a real score, got %v", ranked[0].Result.Score)
	}
}

func TestAIScorer_NoFallbackSurfacesError(t *testing.T) {
	client := &mockCompletionClient{fn: func(int, completion.Request) (string, error) {
		return "", retry.Transient(errors.New("upstream 503"), 503)
	}}
	s := newTestAIScorer(client, config.ScorerModeAI)

	_, err := s.ScoreCandidates(context.Background(), aiTestBrief(), []designer.Designer{aiTestDesigner()})
	if err == nil {
		t.Fatalf("expected error without fallback")
	}
	if got := client.callCount(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestAIScorer_MalformedVerdictNotRetried(t *testing.T) {
	client := &mockCompletionClient{fn: func(int, completion.Request) (string, error) {
		return "not json at all", nil
	}}
	s := newTestAIScorer(client, config.ScorerModeAIWithFallback)

	ranked, err := s.ScoreCandidates(context.Background(), aiTestBrief(), []designer.Designer{aiTestDesigner()})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := client.callCount(); got != 1 {
		t.Fatalf("schema failures must not retry, got %d calls", got)
	}
	if len(ranked) != 1 || ranked[0].AIAnalyzed {
		t.Fatalf("expected deterministic fallback, got %+v", ranked)
	}
}

func TestParseVerdict(t *testing.T) {
	t.Run("tolerates surrounding prose", func(t *testing.T) {
		v, err := parseVerdict("Here is my analysis:\n" + goodVerdict + "\nHope that helps!")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if v.Score == nil || *v.Score != 82 {
			t.Fatalf("unexpected score: %v", v.Score)
		}
	})

	t.Run("missing score rejected", func(t *testing.T) {
		if _, err := parseVerdict(`{"confidence": "high", "categoryMatch": true}`); !errors.Is(err, ErrBadVerdict) {
			t.Fatalf("expected ErrBadVerdict, got %v", err)
		}
	})

	t.Run("bad confidence rejected", func(t *testing.T) {
		if _, err := parseVerdict(`{"score": 50, "confidence": "certain"}`); !errors.Is(err, ErrBadVerdict) {
			t.Fatalf("expected ErrBadVerdict, got %v", err)
		}
	})

	t.Run("no json rejected", func(t *testing.T) {
		if _, err := parseVerdict("I cannot score this."); !errors.Is(err, ErrBadVerdict) {
			t.Fatalf("expected ErrBadVerdict, got %v", err)
		}
	})
}

