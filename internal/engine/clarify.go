package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/PromptWing/llm"
	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/prompts"
	"github.com/josephgoksu/PromptWing/types"
)

// Clarifier runs one clarification round: it asks the model for the most
// valuable missing details given the selected framework and everything
// collected so far. Its completeness flag is advisory; the round ceiling
// enforced by the controller is authoritative.
type Clarifier struct {
	client llm.CompletionClient
}

func NewClarifier(client llm.CompletionClient) *Clarifier {
	return &Clarifier{client: client}
}

// Ask requests the clarification questions for the given round. On the
// final allowed round the instruction forces isComplete=true regardless of
// information sufficiency.
func (c *Clarifier) Ask(ctx context.Context, detail *models.FrameworkDetail, userInput string, data models.ClarificationData, cfg types.ServiceConfig, round, maxRounds int) (*models.ClarificationResult, error) {
	messages := []models.Message{
		prompts.ClarificationMessage(round, maxRounds),
		{Role: "user", Content: buildClarificationRequest(detail, userInput, data)},
	}

	reply, err := c.client.Chat(ctx, messages, cfg)
	if err != nil {
		return nil, fmt.Errorf("clarification request failed: %w", err)
	}

	var result models.ClarificationResult
	if err := decodePayload(reply, "questions", &result); err != nil {
		return nil, fmt.Errorf("clarification reply: %w", err)
	}
	return &result, nil
}

func buildClarificationRequest(detail *models.FrameworkDetail, userInput string, data models.ClarificationData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Selected framework: %s (%s)\n", detail.Name, detail.NameEn)
	if len(detail.Components) > 0 {
		b.WriteString("Framework elements: ")
		for i, comp := range detail.Components {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(comp.NameEn)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nOriginal request: %s\n", userInput)
	b.WriteString("\nInformation collected so far:\n")
	writeCollectedData(&b, data)
	return b.String()
}

// writeCollectedData renders every clarification field, using explicit
// placeholders so the model always sees the full field set.
func writeCollectedData(b *strings.Builder, data models.ClarificationData) {
	fields := []struct{ label, value string }{
		{"Goal", data.Goal},
		{"Target audience", data.Audience},
		{"Context", data.Context},
		{"Format requirements", data.FormatRequirements},
		{"Constraints", data.Constraints},
	}
	for _, f := range fields {
		fmt.Fprintf(b, "- %s: %s\n", f.label, valueOr(f.value, "unspecified"))
	}
	fmt.Fprintf(b, "- Additional information: %s\n", valueOr(data.AdditionalInfo, "none"))
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
