// Package llm wraps the GenAI capability endpoints used by the assistant:
// intent classification, parameter extraction and answer composition.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"devops-assistant/internal/common/errors"
	"devops-assistant/internal/common/logger"
	"github.com/xeipuuv/gojsonschema"
)

// Config holds connection settings for the GenAI service.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// IntentOption describes one category offered to the classifier.
type IntentOption struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Classification is the classifier verdict for one message.
type Classification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// ClassifyRequest carries the message plus the conversational context the
// classifier is allowed to see.
type ClassifyRequest struct {
	Message         string         `json:"message"`
	Options         []IntentOption `json:"options"`
	SelectedProject string         `json:"selectedProject,omitempty"`
	RecentTurns     []TurnSummary  `json:"recentTurns,omitempty"`
}

// TurnSummary is the compact history view sent to the capability.
type TurnSummary struct {
	UserMessage string `json:"userMessage"`
	Intent      string `json:"intent"`
}

// ExtractRequest asks the capability to fill a JSON object matching the
// given schema from the user message.
type ExtractRequest struct {
	Message     string        `json:"message"`
	Schema      interface{}   `json:"schema"`
	RecentTurns []TurnSummary `json:"recentTurns,omitempty"`
}

// ComposeRequest asks the capability to phrase structured results as a
// natural-language answer.
type ComposeRequest struct {
	Question string      `json:"question"`
	Intent   string      `json:"intent"`
	Data     interface{} `json:"data"`
}

// Client is the interface consumed by the router and the intent handlers.
type Client interface {
	Classify(ctx context.Context, req ClassifyRequest) (*Classification, error)
	Extract(ctx context.Context, req ExtractRequest, out interface{}) error
	Compose(ctx context.Context, req ComposeRequest) (string, error)
}

type httpClient struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

// NewClient creates an HTTP-backed capability client.
func NewClient(config *Config, log logger.Logger) Client {
	return &httpClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.With(map[string]interface{}{
			"component": "llm-client",
		}),
	}
}

func (c *httpClient) Classify(ctx context.Context, req ClassifyRequest) (*Classification, error) {
	var result Classification
	if err := c.post(ctx, "classify", req, &result); err != nil {
		return nil, err
	}

	if result.Category == "" {
		return nil, errors.NewClassificationError(fmt.Errorf("empty category in response"))
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, errors.NewClassificationError(fmt.Errorf("confidence %v out of range", result.Confidence))
	}

	c.logger.Debug("message classified", map[string]interface{}{
		"category":   result.Category,
		"confidence": result.Confidence,
	})
	return &result, nil
}

func (c *httpClient) Extract(ctx context.Context, req ExtractRequest, out interface{}) error {
	var raw json.RawMessage
	if err := c.post(ctx, "extract", req, &raw); err != nil {
		return err
	}

	// The capability output is untrusted; validate it against the
	// intent's schema before letting it near typed params.
	if req.Schema != nil {
		schemaLoader := gojsonschema.NewGoLoader(req.Schema)
		docLoader := gojsonschema.NewBytesLoader(raw)
		result, err := gojsonschema.Validate(schemaLoader, docLoader)
		if err != nil {
			return errors.NewExtractionError(fmt.Errorf("schema validation: %w", err))
		}
		if !result.Valid() {
			details := ""
			for _, e := range result.Errors() {
				if details != "" {
					details += "; "
				}
				details += e.String()
			}
			return errors.NewSchemaInvalidError(details)
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewExtractionError(fmt.Errorf("decode params: %w", err))
	}
	return nil
}

func (c *httpClient) Compose(ctx context.Context, req ComposeRequest) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "compose", req, &result); err != nil {
		stdErr := errors.AsStandardError(err)
		if stdErr.Code == errors.ErrCodeLLMTimeout {
			return "", err
		}
		return "", errors.NewComposeError(err)
	}
	if result.Message == "" {
		return "", errors.NewComposeError(fmt.Errorf("empty message in response"))
	}
	return result.Message, nil
}

// post sends one capability request with exponential backoff on transient
// failures. A fresh request is built per attempt so the body can be re-read.
func (c *httpClient) post(ctx context.Context, operation string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.NewLLMRequestError(operation, fmt.Errorf("encode request: %w", err))
	}

	url := c.config.BaseURL + "/api/ai/" + operation

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return errors.NewLLMTimeoutError(operation)
			}
			c.logger.Warn("retrying capability call", map[string]interface{}{
				"operation": operation,
				"attempt":   attempt,
				"error":     lastErr.Error(),
			})
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return errors.NewLLMRequestError(operation, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, doErr := c.client.Do(req)
		if ctx.Err() != nil ||
			stderrors.Is(doErr, context.DeadlineExceeded) ||
			stderrors.Is(doErr, context.Canceled) {
			return errors.NewLLMTimeoutError(operation)
		}
		if doErr != nil {
			lastErr = doErr
			continue
		}

		if resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return errors.NewLLMRequestError(operation, fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		decErr := json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if decErr != nil {
			return errors.NewLLMRequestError(operation, fmt.Errorf("decode response: %w", decErr))
		}
		return nil
	}

	return errors.NewLLMRequestError(operation, fmt.Errorf("no successful response after %d attempts: %w", c.config.MaxRetries+1, lastErr))
}
