// Package concierge talks to the generative model: it turns a recipient
// profile into a prompt, issues a single structured-output request and
// validates the reply into gift ideas. Failures are classified into kinds
// the UI layer maps to user-facing copy; nothing here retries or touches
// storage.
package concierge

import (
	"context"
	"fmt"
	"strings"

	"github.com/giftgenius/giftgenius-api/internal/links"
	"github.com/giftgenius/giftgenius-api/internal/models"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.5-flash"

// Client wraps a configured Gemini model. Construct one explicitly and pass
// it around; there is no package-level singleton.
type Client struct {
	apiKey string
	client *genai.Client
	model  *genai.GenerativeModel
}

// New builds a client for the given key and model name. A missing key is
// not an error here: generation reports it per attempt, so the server can
// start unconfigured and surface the problem on use.
func New(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return &Client{}, nil
	}
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(4096)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &Client{
		apiKey: apiKey,
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// GenerateGiftIdeas performs one generation attempt for the profile. Order
// of the returned ideas matches the model output; each idea gets its image
// URL derived from its keyword before return.
func (c *Client) GenerateGiftIdeas(ctx context.Context, profile models.RecipientProfile) ([]models.GiftIdea, error) {
	if c.apiKey == "" {
		return nil, &Error{
			Kind:    KindConfiguration,
			Message: "API_KEY_MISSING: no Gemini API key is configured",
		}
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(BuildPrompt(profile)))
	if err != nil {
		return nil, classify(err)
	}

	if safetyStopped(resp) {
		return nil, &Error{
			Kind:    KindSafetyBlocked,
			Message: "the request was withheld by content-safety policy",
		}
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, &Error{
			Kind:    KindEmptyResponse,
			Message: "the AI returned an empty response; it may have been blocked by safety filters",
		}
	}

	ideas, err := parseIdeas(text)
	if err != nil {
		return nil, err
	}

	for i := range ideas {
		ideas[i].ImageURL = links.ImageURL(ideas[i].ImageKeyword)
	}
	return ideas, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

func safetyStopped(resp *genai.GenerateContentResponse) bool {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason == genai.BlockReasonSafety {
		return true
	}
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return true
		}
	}
	return false
}
