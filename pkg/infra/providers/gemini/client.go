package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/commercegate/catalog-agent/pkg/infra/providers"
	"google.golang.org/genai"
)

type client struct {
	clientPool *sync.Map
}

func NewGeminiClient() providers.Client {
	return &client{
		clientPool: &sync.Map{},
	}
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	if config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	genaiClient, err := c.getOrCreateClient(ctx, config.Credentials.ApiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	var parts []*genai.Part
	if config.SystemPrompt != "" {
		parts = append(parts, &genai.Part{
			Text: config.SystemPrompt,
		})
	}
	if len(config.Instructions) > 0 {
		parts = append(parts, &genai.Part{
			Text: providers.FormatInstructions(config.Instructions),
		})
	}

	generateConfig := &genai.GenerateContentConfig{}
	if len(parts) > 0 {
		generateConfig.SystemInstruction = &genai.Content{
			Parts: parts,
			Role:  "system",
		}
	}
	if config.MaxTokens > 0 {
		generateConfig.MaxOutputTokens = int32(config.MaxTokens)
	}
	if config.Temperature > 0 {
		temp := float32(config.Temperature)
		generateConfig.Temperature = &temp
	}

	result, err := genaiClient.Models.GenerateContent(ctx, model, genai.Text(prompt), generateConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := result.Text()
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	if responseText == "" {
		return nil, fmt.Errorf("no completions returned")
	}

	completionResp := &providers.CompletionResponse{
		ID:       fmt.Sprintf("gemini-%d", time.Now().UnixNano()),
		Model:    model,
		Response: responseText,
	}

	if result.UsageMetadata != nil {
		completionResp.Usage = providers.Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return completionResp, nil
}

func (c *client) getOrCreateClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if v, ok := c.clientPool.Load(apiKey); ok {
		if cached, ok := v.(*genai.Client); ok {
			return cached, nil
		}
	}
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c.clientPool.Store(apiKey, genaiClient)
	return genaiClient, nil
}
