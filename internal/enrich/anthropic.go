package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// DefaultMaxTokens bounds the normalization response size.
const DefaultMaxTokens = 1024

const systemPrompt = `You are a logistics geocoding assistant.
Convert each location into a proper airport, seaport, or full address that can be geocoded.
Return ONLY valid JSON mapping input -> normalized output.

Example:
{
  "PHMNS seaport": "Port of Manila, Philippines",
  "SGSIN airport": "Singapore Changi Airport"
}`

// AnthropicNormalizer normalizes locations with the Anthropic Messages
// API. A response that is not the requested JSON degrades to the
// identity mapping rather than failing the batch.
type AnthropicNormalizer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicNormalizer builds a normalizer for the given API key and
// model. Extra request options are appended after the key, which lets
// tests point the client at a local server.
func NewAnthropicNormalizer(apiKey, model string, maxTokens int64, opts ...option.RequestOption) *AnthropicNormalizer {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicNormalizer{
		client:    anthropic.NewClient(clientOpts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (n *AnthropicNormalizer) Name() string {
	return "anthropic"
}

// Normalize asks the model for a JSON object mapping each input location
// to a geocodable form. Locations the model omits map to themselves.
func (n *AnthropicNormalizer) Normalize(ctx context.Context, locations []string) (map[string]string, error) {
	if len(locations) == 0 {
		return map[string]string{}, nil
	}
	log := logging.ComponentLogger(logging.FromContext(ctx), "enrich")

	userPrompt := "Locations:\n" + strings.Join(locations, "\n")
	message, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(n.model),
		MaxTokens: n.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	responseText := ""
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	mapping, err := parseMappingResponse(responseText)
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse enrichment response, using locations as-is")
		return Identity(locations), nil
	}

	for _, loc := range locations {
		if _, ok := mapping[loc]; !ok {
			mapping[loc] = loc
		}
	}
	log.Debug().Int("locations", len(locations)).Str("model", n.model).Msg("locations normalized")
	return mapping, nil
}

// parseMappingResponse decodes the model output, tolerating a markdown
// code fence around the JSON object.
func parseMappingResponse(responseText string) (map[string]string, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var mapping map[string]string
	if err := json.Unmarshal([]byte(responseText), &mapping); err != nil {
		return nil, fmt.Errorf("parsing normalization response: %w", err)
	}
	return mapping, nil
}
