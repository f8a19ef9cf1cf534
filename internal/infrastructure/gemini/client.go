package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/coachboard/domain"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	defaultTimeout  = 30 * time.Second

	apiKeyHeader = "X-goog-api-key"
	replyPath    = "candidates.0.content.parts.0.text"
)

// Config holds the Gemini credentials and transport settings.
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	// HTTPClient overrides the fasthttp client, mostly for tests.
	HTTPClient *fasthttp.Client
}

// Client calls the generateContent endpoint. Every call is stateless.
type Client struct {
	cfg    Config
	http   *fasthttp.Client
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "coachboard",
			MaxIdleConnDuration: time.Minute,
		}
	}
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Generate submits prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", domain.ErrConfigurationMissing
	}
	if err := ctx.Err(); err != nil {
		return "", domain.WrapError(domain.ErrCodeTransientNetwork, "gemini request cancelled", err)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "encode gemini request", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.Endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	req.SetBody(body)

	started := time.Now()
	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		return "", domain.WrapError(domain.ErrCodeTransientNetwork, "gemini request failed", err)
	}

	status := resp.StatusCode()
	c.logger.Debug("gemini response",
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("bytes", len(resp.Body())),
	)
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return "", domain.WrapError(domain.ErrCodeTransientNetwork, "gemini request failed", fmt.Errorf("status %d", status))
	}

	return parseReply(resp.Body())
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.cfg.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func parseReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", domain.NewError(domain.ErrCodeMalformedResponse, "gemini response is not json")
	}
	text := gjson.GetBytes(body, replyPath)
	if !text.Exists() || text.Type != gjson.String || text.Str == "" {
		return "", domain.NewError(domain.ErrCodeMalformedResponse, "gemini response has no candidate text")
	}
	return text.Str, nil
}
