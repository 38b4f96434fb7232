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

// maxStyleExamples bounds how many worked examples are embedded in the
// generation instruction as style anchors.
const maxStyleExamples = 2

// Composer generates the final optimized prompt from the selected framework
// and the collected clarification data. It returns the raw model reply;
// stripping any code-fence wrapper is a presentation concern.
type Composer struct {
	client       llm.CompletionClient
	templatesDir string
}

func NewComposer(client llm.CompletionClient, opts ...Option) *Composer {
	s := applyOptions(opts)
	return &Composer{client: client, templatesDir: s.templatesDir}
}

// Compose sends the generation instruction and returns the model's reply
// unmodified.
func (c *Composer) Compose(ctx context.Context, detail *models.FrameworkDetail, data models.ClarificationData, cfg types.ServiceConfig) (string, error) {
	if detail == nil {
		return "", types.NewError(types.ErrConfiguration, "no framework selected for prompt generation")
	}

	messages := []models.Message{
		prompts.GenerationMessageFrom(c.templatesDir),
		{Role: "user", Content: buildGenerationRequest(detail, data)},
	}

	reply, err := c.client.Chat(ctx, messages, cfg)
	if err != nil {
		return "", fmt.Errorf("prompt generation request failed: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", types.NewError(types.ErrParse, "model returned an empty prompt")
	}
	return reply, nil
}

// buildGenerationRequest embeds the framework overview, its ordered
// elements, every clarification field, and up to two worked examples.
func buildGenerationRequest(detail *models.FrameworkDetail, data models.ClarificationData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Framework: %s (%s)\n", detail.Name, detail.NameEn)
	if detail.Overview != "" {
		fmt.Fprintf(&b, "Overview: %s\n", detail.Overview)
	}

	b.WriteString("\nFramework elements, in order:\n")
	for i, comp := range detail.Components {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, comp.NameNative, comp.NameEn, comp.Description)
	}

	b.WriteString("\nUser requirements:\n")
	fmt.Fprintf(&b, "- Original request: %s\n", valueOr(data.OriginalInput, "unspecified"))
	writeCollectedData(&b, data)

	for i, ex := range detail.Examples {
		if i >= maxStyleExamples {
			break
		}
		fmt.Fprintf(&b, "\nWorked example (%s):\n%s\n", ex.Title, ex.Body)
	}

	b.WriteString("\nGenerate the optimized prompt now.")
	return b.String()
}
