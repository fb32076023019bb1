package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"

	"github.com/aryapratama/duittui/duit"
)

// categorySuggester proposes a category for a quick-added expense that
// came in without one.
type categorySuggester interface {
	SuggestCategory(ctx context.Context, description string, categories []duit.Category) (int64, error)
}

// newSuggesterFromEnv enables suggestions only when an API key is set;
// without one quick-add falls back to the default category.
func newSuggesterFromEnv() categorySuggester {
	apiKey := os.Getenv("DUITTUI_ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}
	return newAnthropicSuggester(apiKey)
}

// anthropicSuggester implements categorySuggester on Anthropic's API.
type anthropicSuggester struct {
	client *anthropic.Client
}

func newAnthropicSuggester(apiKey string) *anthropicSuggester {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &anthropicSuggester{client: &client}
}

const suggestionMaxTokens = 100

func (p *anthropicSuggester) SuggestCategory(
	ctx context.Context,
	description string,
	categories []duit.Category,
) (int64, error) {
	if len(categories) == 0 {
		return 0, errors.New("no categories to choose from")
	}

	prompt := buildSuggestionPrompt(description, categories)

	log.Debug("sending categorization request to Anthropic", "description", description)

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: suggestionMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	var responseText string
	if len(response.Content) > 0 {
		responseText = response.Content[0].Text
	}
	if responseText == "" {
		return 0, errors.New("empty response from Anthropic API")
	}

	id, err := parseSuggestionResponse(responseText, categories)
	if err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}

	log.Debug("received category suggestion", "category_id", id)
	return id, nil
}

func buildSuggestionPrompt(description string, categories []duit.Category) string {
	var sb strings.Builder
	sb.WriteString("Available categories:\n")
	for _, cat := range categories {
		fmt.Fprintf(&sb, "- ID: %d, Name: %s\n", cat.ID, cat.Name)
	}

	return fmt.Sprintf(`You categorize personal expenses.
Pick the best matching category for this expense description: %q

%s

Respond with ONLY a JSON object in this exact format:
{"category_id": <number>}

If no category fits well, pick the closest match.`, description, sb.String())
}

func parseSuggestionResponse(response string, categories []duit.Category) (int64, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 {
		return 0, fmt.Errorf("no JSON found in response: %s", response)
	}

	var result struct {
		CategoryID int64 `json:"category_id"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return 0, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	for _, cat := range categories {
		if cat.ID == result.CategoryID {
			return result.CategoryID, nil
		}
	}

	return 0, fmt.Errorf("suggested category ID %d not found in available categories", result.CategoryID)
}
