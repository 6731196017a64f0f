package completion

import (
	"context"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"designmatch/internal/config"
	"designmatch/internal/pkg/retry"
)

// Client is the narrow completion-API contract the match engine depends on.
// The request carries a prompt and sampling temperature; the response is the
// model's text output.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

// ErrEmptyResponse is returned when the model produced no text content. It is
// not retryable.
var ErrEmptyResponse = errors.New("completion: empty response")

type anthropicClient struct {
	client sdk.Client
	model  string
	logger *zap.Logger
}

// NewAnthropic builds a Client backed by the Anthropic messages API. The
// bearer credential comes from configuration, never from code.
func NewAnthropic(cfg config.AnthropicConfig, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &anthropicClient{
		client: sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
		logger: logger,
	}
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   req.MaxTokens,
		Temperature: sdk.Float(req.Temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	c.logger.Debug("completion call",
		zap.String("model", c.model),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}

// classify wraps provider errors so the retry layer can tell a flaky gateway
// from a bad credential.
func classify(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		if retry.IsTransientHTTPStatus(apiErr.StatusCode) {
			return retry.Transient(fmt.Errorf("completion: %w", err), apiErr.StatusCode)
		}
		return fmt.Errorf("completion: %w", err)
	}
	if retry.IsTransient(err) {
		return retry.Transient(fmt.Errorf("completion: %w", err), 0)
	}
	return fmt.Errorf("completion: %w", err)
}
