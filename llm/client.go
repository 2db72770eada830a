// Package llm wraps the Anthropic API as the generative-model collaborator
// of the consolidation pipeline: entity candidate extraction and
// relationship classification, with bounded retries on transient failures.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/siherrmann/organizer/model"
)

const (
	defaultModel   = "claude-3-5-haiku-20241022"
	maxRetries     = 3
	initialBackoff = 1 * time.Second
)

// ErrAPIKeyRequired is returned when an API key is needed but not provided.
var ErrAPIKeyRequired = errors.New("API key required")

// Client wraps the Anthropic API for entity extraction and relationship
// classification. A Client is read-only after construction and safe to
// share between requests.
type Client struct {
	client           anthropic.Client
	model            anthropic.Model
	classifyTemplate *template.Template
	maxRetries       int
	initialBackoff   time.Duration
}

// NewClient creates a new model client. Env var ANTHROPIC_API_KEY takes
// precedence over the explicit apiKey.
func NewClient(apiKey string) (*Client, error) {
	envKey := os.Getenv("ANTHROPIC_API_KEY")
	if envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY environment variable or provide via config", ErrAPIKeyRequired)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	classifyTmpl, err := template.New("classify").Parse(classifyPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse classify template: %w", err)
	}

	return &Client{
		client:           client,
		model:            defaultModel,
		classifyTemplate: classifyTmpl,
		maxRetries:       maxRetries,
		initialBackoff:   initialBackoff,
	}, nil
}

// ExtractEntities asks the model for entity candidates in one text chunk.
// Unparsable responses and exhausted retries surface as errors, the caller
// decides whether that is fatal for its batch.
func (c *Client) ExtractEntities(ctx context.Context, chunk string) ([]model.EntityCandidate, error) {
	resp, err := c.callWithRetry(ctx, entityExtractionPrompt+"\n"+chunk)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Entities []model.EntityCandidate `json:"entities"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(resp)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse entity response: %w", err)
	}

	candidates := make([]model.EntityCandidate, 0, len(parsed.Entities))
	for _, candidate := range parsed.Entities {
		candidate.Type = normalizeEntityType(candidate.Type)
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// ClassifyRelationship asks the model for the relation type between two
// entities given up to 5 example snippets. It never returns an error:
// internal failures degrade to the generic {"related_to", 0.5}.
func (c *Client) ClassifyRelationship(ctx context.Context, source, target string, examples []string, sourceType, targetType model.EntityType) model.Classification {
	fallback := model.Classification{Type: model.DefaultRelationType, Confidence: 0.5}

	if len(examples) == 0 {
		return fallback
	}
	if len(examples) > 5 {
		examples = examples[:5]
	}

	prompt, err := c.renderClassifyPrompt(source, target, examples, sourceType, targetType)
	if err != nil {
		return fallback
	}

	resp, err := c.callWithRetry(ctx, prompt)
	if err != nil {
		return fallback
	}

	var parsed model.Classification
	if err := json.Unmarshal([]byte(stripJSONFences(resp)), &parsed); err != nil {
		return fallback
	}
	if parsed.Type == "" {
		return fallback
	}

	parsed.Type = strings.ToLower(parsed.Type)
	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	} else if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}
	return parsed
}

// callWithRetry sends a single user message and retries transient failures
// up to maxRetries attempts total with exponential backoff (1s, 2s, ...).
// Non-retryable errors and context cancellation propagate immediately.
func (c *Client) callWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(c.initialBackoff) * math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		message, err := c.client.Messages.New(ctx, params)

		if err == nil {
			if len(message.Content) > 0 {
				content := message.Content[0]
				if content.Type == "text" {
					return content.Text, nil
				}
				return "", fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
			}
			return "", fmt.Errorf("unexpected response format: no content blocks")
		}

		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if !isRetryable(err) {
			return "", fmt.Errorf("non-retryable error: %w", err)
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

// isRetryable reports whether err is a rate limit or transient availability
// failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		statusCode := apiErr.StatusCode
		if statusCode == 429 || statusCode >= 500 {
			return true
		}
		return false
	}

	return false
}

type classifyData struct {
	Source     string
	Target     string
	SourceType model.EntityType
	TargetType model.EntityType
	Snippets   []string
}

func (c *Client) renderClassifyPrompt(source, target string, snippets []string, sourceType, targetType model.EntityType) (string, error) {
	var b strings.Builder
	data := classifyData{
		Source:     source,
		Target:     target,
		SourceType: sourceType,
		TargetType: targetType,
		Snippets:   snippets,
	}
	if err := c.classifyTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// stripJSONFences removes markdown code fences some models wrap around
// JSON output.
func stripJSONFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// normalizeEntityType maps a model-reported type onto the closed entity
// type set, defaulting to CONCEPT for anything unknown.
func normalizeEntityType(entityType string) string {
	switch model.EntityType(strings.ToUpper(strings.TrimSpace(entityType))) {
	case model.EntityTypePerson, model.EntityTypeOrganization, model.EntityTypeConcept,
		model.EntityTypeDate, model.EntityTypePaper, model.EntityTypeLocation:
		return strings.ToUpper(strings.TrimSpace(entityType))
	default:
		return string(model.EntityTypeConcept)
	}
}
