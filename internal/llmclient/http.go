package llmclient

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/antigravity-dev/autoword-go/internal/config"
	"github.com/antigravity-dev/autoword-go/internal/errs"
	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// requestCounter supplies unique ids for request tracing.
var requestCounter uint64

func nextRequestID() string {
	n := atomic.AddUint64(&requestCounter, 1)
	b := make([]byte, 4)
	_, _ = crand.Read(b)
	return fmt.Sprintf("llm-%d-%s", n, hex.EncodeToString(b))
}

// HTTPClient is an OpenAI-chat-completions-compatible client, which
// covers openai, zai, and openrouter directly; anthropic is reached
// through the same wire shape via an OpenAI-compatible proxy base URL,
// consistent with this module's single-provider-shape simplification.
type HTTPClient struct {
	httpClient       *http.Client
	baseURL          string
	apiKey           string
	secondaryAPIKey  string
	model            string
	maxRetries       int
	retryBackoffBase time.Duration
	retryBackoffMax  time.Duration
	perCallTimeout   time.Duration
}

// NewHTTPClient builds an HTTPClient from the resolved LLM config. When
// cfg.APIKeySecondary is set, a credential rejection on the primary key
// triggers one immediate fallback attempt on the secondary key before
// the normal retry/backoff loop gives up.
func NewHTTPClient(cfg config.LLMConfig) *HTTPClient {
	perCall := cfg.PerCallTimeout
	if perCall <= 0 {
		perCall = 60 * time.Second
	}
	return &HTTPClient{
		httpClient:       &http.Client{Timeout: cfg.GetTimeout()},
		baseURL:          strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:           cfg.APIKey,
		secondaryAPIKey:  cfg.APIKeySecondary,
		model:            cfg.Model,
		maxRetries:       cfg.MaxRetries,
		retryBackoffBase: cfg.RetryBackoffBase,
		retryBackoffMax:  cfg.RetryBackoffMax,
		perCallTimeout:   perCall,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	TopP           float64        `json:"top_p"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Complete posts req to the chat completions endpoint, retrying
// transient failures with exponential backoff, and races each attempt
// against perCallTimeout while the overall call stays bounded by ctx.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (Response, error) {
	log := logging.Get(logging.CategoryLLM)
	reqID := nextRequestID()

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature:    0,
		TopP:           1,
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, errs.Wrap(errs.LLMTransport, "could not encode request body", err)
	}

	key := c.apiKey
	triedSecondary := false

	attempts := 0
	for {
		attempts++
		text, err := c.attempt(ctx, reqID, key, payload)
		if err == nil {
			return Response{RawText: text, Attempts: attempts}, nil
		}

		if errorIsCode(err, errs.LLMAuth) && !triedSecondary && c.secondaryAPIKey != "" {
			log.Warn("primary API key rejected, falling back to secondary key")
			key = c.secondaryAPIKey
			triedSecondary = true
			attempts--
			continue
		}

		if isFatal(err) || attempts > c.maxRetries {
			return Response{}, err
		}

		delay := c.backoff(attempts)
		log.Warn("attempt %d/%d failed: %v, retrying in %s", attempts, c.maxRetries+1, err, delay)
		if werr := sleepWithContext(ctx, delay); werr != nil {
			return Response{}, errs.Wrap(errs.LLMCancelled, "cancelled during retry backoff", werr)
		}
	}
}

// attempt performs a single HTTP round trip, bounded by perCallTimeout
// using an errgroup so the overall retry loop can still observe ctx
// cancellation independently of the per-attempt deadline.
func (c *HTTPClient) attempt(ctx context.Context, reqID, key string, payload []byte) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.perCallTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(attemptCtx)
	var result string
	var resultErr error

	g.Go(func() error {
		result, resultErr = c.roundTrip(gctx, reqID, key, payload)
		return resultErr
	})

	if err := g.Wait(); err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return "", errs.Wrap(errs.LLMTransport, "request timed out", attemptCtx.Err())
		}
		if ctx.Err() != nil {
			return "", errs.Wrap(errs.LLMCancelled, "request cancelled", ctx.Err())
		}
		return "", resultErr
	}
	return result, nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, reqID, key string, payload []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", errs.Wrap(errs.LLMTransport, "could not build HTTP request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)
	httpReq.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errs.Wrap(errs.LLMTransport, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.Wrap(errs.LLMTransport, "could not read response body", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errs.New(errs.LLMAuth, fmt.Sprintf("provider rejected credentials (status %d)", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return "", errs.Wrap(errs.LLMTransport, fmt.Sprintf("provider returned status %d", resp.StatusCode), fmt.Errorf("%s", truncateBody(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errs.Wrap(errs.LLMFormat, "could not parse chat completion response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errs.New(errs.LLMFormat, "provider returned no completion choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// backoff computes exponential backoff with jitter (a random 50-100% of
// the capped delay), mirroring the retry shape used by the teacher's API
// clients.
func (c *HTTPClient) backoff(attempt int) time.Duration {
	base := c.retryBackoffBase
	if base <= 0 {
		base = time.Second
	}
	maxDelay := c.retryBackoffMax
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if delay > maxDelay {
		delay = maxDelay
	}
	jittered := time.Duration(float64(delay) * (0.5 + rand.Float64()*0.5))
	return jittered
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isFatal reports whether err is one that retrying cannot fix:
// authentication failure or caller cancellation.
func isFatal(err error) bool {
	return errorIsCode(err, errs.LLMAuth) || errorIsCode(err, errs.LLMCancelled)
}

func errorIsCode(err error, code errs.Code) bool {
	e, ok := err.(*errs.Error)
	return ok && e.Code == code
}

func truncateBody(b []byte) string {
	const max = 500
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
