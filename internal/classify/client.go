package classify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"leadsnap-engine/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultModel = "gpt-4o-mini"

type Options struct {
	APIKey            string
	Model             string
	BaseURL           string
	RequestsPerMinute int
	HTTPClient        *http.Client
}

// Result always carries a fully populated analysis. Degraded is set when the
// analysis is a stand-in; Err holds the cause when a call failed.
type Result struct {
	Analysis domain.LeadAnalysis
	Degraded bool
	Err      error
}

type Client struct {
	llm     llms.Model
	model   string
	limiter *rate.Limiter
	log     *zap.Logger
}

// New builds a client for an OpenAI-compatible chat completion endpoint.
// Without an API key the client runs in degraded mode and never calls out.
func New(opts Options, log *zap.Logger) (*Client, error) {
	c := newClient(opts, log)
	if strings.TrimSpace(opts.APIKey) == "" {
		return c, nil
	}

	llmOpts := []openai.Option{
		openai.WithToken(opts.APIKey),
		openai.WithModel(c.model),
	}
	if opts.BaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(strings.TrimRight(opts.BaseURL, "/")))
	}
	if opts.HTTPClient != nil {
		llmOpts = append(llmOpts, openai.WithHTTPClient(opts.HTTPClient))
	}
	llm, err := openai.New(llmOpts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	c.llm = llm
	return c, nil
}

// NewWithModel wraps an already constructed model. A nil model means degraded mode.
func NewWithModel(llm llms.Model, opts Options, log *zap.Logger) *Client {
	c := newClient(opts, log)
	c.llm = llm
	return c
}

func newClient(opts Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		model:   model,
		limiter: newLimiter(opts.RequestsPerMinute),
		log:     log,
	}
}

func (c *Client) Configured() bool { return c.llm != nil }

// Analyze classifies a newline-joined chat transcript. It never fails.
func (c *Client) Analyze(ctx context.Context, chatText string) domain.LeadAnalysis {
	return c.Classify(ctx, chatText).Analysis
}

func (c *Client) Classify(ctx context.Context, chatText string) Result {
	if c.llm == nil {
		c.log.Warn("no OpenAI API key found")
		return Result{Analysis: NotConfigured(), Degraded: true}
	}

	a, err := c.call(ctx, chatText)
	if err != nil {
		c.log.Error("openai analysis failed", zap.String("model", c.model), zap.Error(err))
		return Result{Analysis: Failed(err), Degraded: true, Err: err}
	}
	c.log.Info("chat classified", zap.String("status", a.Status), zap.String("deal_value", a.DealValue))
	return Result{Analysis: a}
}

func (c *Client) call(ctx context.Context, chatText string) (domain.LeadAnalysis, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return domain.LeadAnalysis{}, err
	}

	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt()),
		llms.TextParts(llms.ChatMessageTypeHuman, chatText),
	}, llms.WithModel(c.model), llms.WithJSONMode())
	if err != nil {
		return domain.LeadAnalysis{}, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return domain.LeadAnalysis{}, errors.New("empty response")
	}
	return ParseAnalysis(resp.Choices[0].Content)
}
