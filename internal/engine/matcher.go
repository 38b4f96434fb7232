package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/PromptWing/internal/catalog"
	"github.com/josephgoksu/PromptWing/llm"
	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/prompts"
	"github.com/josephgoksu/PromptWing/types"
)

// maxRecommendations bounds the ranked list handed back to the caller.
const maxRecommendations = 2

// Matcher recommends frameworks for a free-text request by listing the whole
// catalog to the model and parsing its ranked reply. Ranking quality is the
// model's responsibility; the matcher only guarantees syntactic recovery.
type Matcher struct {
	client       llm.CompletionClient
	catalog      *catalog.Catalog
	templatesDir string
}

func NewMatcher(client llm.CompletionClient, cat *catalog.Catalog, opts ...Option) *Matcher {
	s := applyOptions(opts)
	return &Matcher{client: client, catalog: cat, templatesDir: s.templatesDir}
}

// Match returns up to two ranked framework recommendations for userInput,
// more recommended or more demanding first.
func (m *Matcher) Match(ctx context.Context, userInput string, cfg types.ServiceConfig) ([]models.RankedFramework, error) {
	entries := m.catalog.Entries()
	if len(entries) == 0 {
		return nil, types.NewError(types.ErrCatalog, "framework catalog is empty")
	}

	messages := []models.Message{
		prompts.MatchingMessageFrom(m.templatesDir),
		{Role: "user", Content: buildMatchingRequest(userInput, entries)},
	}

	reply, err := m.client.Chat(ctx, messages, cfg)
	if err != nil {
		return nil, fmt.Errorf("framework matching request failed: %w", err)
	}

	var parsed struct {
		Frameworks []models.RankedFramework `json:"frameworks"`
	}
	if err := decodePayload(reply, "frameworks", &parsed); err != nil {
		return nil, fmt.Errorf("framework matching reply: %w", err)
	}
	if len(parsed.Frameworks) == 0 {
		return nil, types.NewError(types.ErrParse, "model returned no framework recommendations")
	}
	if len(parsed.Frameworks) > maxRecommendations {
		parsed.Frameworks = parsed.Frameworks[:maxRecommendations]
	}
	return parsed.Frameworks, nil
}

// buildMatchingRequest lists every catalog entry with its id, names, and
// scenario tags, followed by the weighting rule and the user's request.
func buildMatchingRequest(userInput string, entries []models.FrameworkIndexEntry) string {
	var b strings.Builder
	b.WriteString("Available prompt frameworks:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", e.ID, e.Name, e.NameEn, e.Scenario)
	}
	b.WriteString("\nWeigh the candidates by scenario fit (40%), complexity fit (30%), domain fit (20%), and popularity (10%). Recommend the 2 best frameworks for the request below, the more recommended or more demanding one first.\n")
	b.WriteString("\nUser request: ")
	b.WriteString(userInput)
	return b.String()
}
