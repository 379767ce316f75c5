// internal/research/client.go
package research

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	httpclient "fantasy-research/internal/common/http"
	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/common/metrics"
)

const (
	DefaultBaseURL       = "https://api.perplexity.ai"
	DefaultModel         = "sonar"
	DefaultMaxTokens     = 1000
	DefaultTemperature   = 0.2
	DefaultTopP          = 0.9
	DefaultTimeout       = 30 * time.Second
	DefaultRecencyFilter = "week"

	// PlaceholderAPIKey is the value shipped in sample env files; it never enables the client.
	PlaceholderAPIKey = "your-perplexity-api-key"

	systemPrompt = "You are a fantasy football expert analyst. Provide detailed, actionable insights based on current data and trends. Be specific with recommendations and confidence levels."
)

// DefaultDomainFilter restricts upstream search to these sources.
var DefaultDomainFilter = []string{"espn.com", "nfl.com", "yahoo.com", "fantasypros.com", "rotoworld.com"}

// ClientConfig is injected at construction; the enable gate is derived from it once.
type ClientConfig struct {
	Enabled       bool
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int
	Temperature   *float64 // nil selects DefaultTemperature
	TopP          float64
	Timeout       time.Duration
	DomainFilter  []string
	RecencyFilter string

	// HTTPClient overrides the transport; nil builds one from Timeout.
	HTTPClient *http.Client
}

// GateOpen reports whether cfg permits outbound research calls.
func (c ClientConfig) GateOpen() bool {
	key := strings.TrimSpace(c.APIKey)
	return c.Enabled && key != "" && key != PlaceholderAPIKey
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature == nil || *c.Temperature < 0 {
		t := DefaultTemperature
		c.Temperature = &t
	}
	if c.TopP <= 0 {
		c.TopP = DefaultTopP
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if len(c.DomainFilter) == 0 {
		c.DomainFilter = append([]string(nil), DefaultDomainFilter...)
	}
	if c.RecencyFilter == "" {
		c.RecencyFilter = DefaultRecencyFilter
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string    `json:"model"`
	Messages            []message `json:"messages"`
	MaxTokens           int       `json:"max_tokens"`
	Temperature         float64   `json:"temperature"`
	TopP                float64   `json:"top_p"`
	ReturnCitations     bool      `json:"return_citations"`
	SearchDomainFilter  []string  `json:"search_domain_filter"`
	SearchRecencyFilter string    `json:"search_recency_filter"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// Client performs single question/answer round-trips against the research API.
type Client struct {
	cfg     ClientConfig
	enabled bool
	http    *httpclient.Client
	logger  logger.Logger
	now     func() time.Time
}

func NewClient(cfg ClientConfig, log logger.Logger) *Client {
	cfg = cfg.withDefaults()
	hc := httpclient.NewClient(cfg.Timeout)
	if cfg.HTTPClient != nil {
		hc = httpclient.NewClientWith(cfg.HTTPClient)
	}
	return &Client{
		cfg:     cfg,
		enabled: cfg.GateOpen(),
		http:    hc,
		logger:  logger.ForComponent(log, "research-client"),
		now:     time.Now,
	}
}

// Enabled reports the gate state fixed at construction.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Research asks one question. It never returns an error directly: a closed
// gate yields StatusDisabled and any transport or upstream problem yields
// StatusUpstreamFailed with Err set.
func (c *Client) Research(ctx context.Context, prompt string) Outcome {
	if !c.enabled {
		c.logger.Debug("research disabled, skipping upstream call", nil)
		metrics.ResearchRequests.WithLabelValues(StatusDisabled.String()).Inc()
		return disabled()
	}

	start := c.now()
	result, err := c.call(ctx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error("research request failed", map[string]interface{}{
			"error":      err.Error(),
			"durationMs": elapsed.Milliseconds(),
		})
		metrics.ResearchRequests.WithLabelValues(StatusUpstreamFailed.String()).Inc()
		metrics.ResearchDuration.WithLabelValues(StatusUpstreamFailed.String()).Observe(elapsed.Seconds())
		return failed(err)
	}

	c.logger.Info("research answered", map[string]interface{}{
		"confidence":    result.Confidence,
		"citationCount": len(result.Citations),
		"durationMs":    elapsed.Milliseconds(),
	})
	metrics.ResearchRequests.WithLabelValues(StatusAnswered.String()).Inc()
	metrics.ResearchDuration.WithLabelValues(StatusAnswered.String()).Observe(elapsed.Seconds())
	metrics.ResearchConfidence.Observe(result.Confidence)
	return answered(result)
}

func (c *Client) call(ctx context.Context, prompt string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:           c.cfg.MaxTokens,
		Temperature:         *c.cfg.Temperature,
		TopP:                c.cfg.TopP,
		ReturnCitations:     true,
		SearchDomainFilter:  c.cfg.DomainFilter,
		SearchRecencyFilter: c.cfg.RecencyFilter,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var resp chatResponse
	if err := c.http.PostJSON(ctx, c.cfg.BaseURL+"/chat/completions", headers, req, &resp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", ErrUpstream)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty answer", ErrUpstream)
	}

	citations := resp.Citations
	if citations == nil {
		citations = []string{}
	}
	model := resp.Model
	if model == "" {
		model = c.cfg.Model
	}

	return &Result{
		Content:    content,
		Citations:  citations,
		Confidence: Score(content),
		Model:      model,
		AnsweredAt: c.now().UTC(),
	}, nil
}
