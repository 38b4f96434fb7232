package prompts

import (
	"fmt"

	"github.com/josephgoksu/PromptWing/models"
)

// Stage system prompts. Each defines the persona, the task, and the strict
// output format for one phase of the conversation.

// systemPromptTemplate is the shared scaffold for all stage prompts.
const systemPromptTemplate = `You are %s.

Task: %s

Output format: %s

Follow the requirements exactly.`

// SystemMessage builds a system message from a role, task, and format
// requirement.
func SystemMessage(role, task, format string) models.Message {
	return models.Message{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptTemplate, role, task, format),
	}
}

// FrameworkMatchingSystemPrompt is the system prompt for the framework
// recommendation phase. The model must return exactly two ranked
// recommendations, more-recommended-or-harder first.
const FrameworkMatchingSystemPrompt = `Return the recommendation as JSON with the framework name, the reason, the complexity, and the element count. Order rule: put the more recommended or more demanding framework first. Use this exact shape:
` + "```json" + `
{
  "frameworks": [
    {
      "name": "Framework name",
      "nameEn": "Framework Name",
      "reason": "why this framework fits",
      "complexity": "simple/medium/complex",
      "elements": 5
    }
  ]
}
` + "```"

// MatchingMessage returns the system message for framework matching.
func MatchingMessage() models.Message {
	return MatchingMessageFrom("")
}

// MatchingMessageFrom is MatchingMessage with the output format sourced
// from templatesDir when an override file exists there. Unreadable
// overrides fall back to the built-in format.
func MatchingMessageFrom(templatesDir string) models.Message {
	format, err := GetPrompt(KeyMatching, templatesDir)
	if err != nil {
		format = FrameworkMatchingSystemPrompt
	}
	return SystemMessage(
		"a prompt engineering expert",
		"analyze the user's request and recommend the 2 best-suited prompt frameworks from the provided list",
		format,
	)
}

// clarificationQuestionsFormat asks for 1-3 questions across the fixed
// dimensions; the model may declare completeness early.
const clarificationQuestionsFormat = `Ask the 1-3 most valuable, concise questions, most important first. Return JSON:
` + "```json" + `
{
  "questions": [
    {
      "dimension": "goal clarity/target audience/context completeness/format requirements/constraints",
      "question": "the question",
      "hint": "why you are asking"
    }
  ],
  "isComplete": false
}
` + "```" + `
Set isComplete to true once the collected information is fully sufficient. Note: only %d clarification rounds are available in total, use them efficiently.`

// clarificationFinalFormat is used on the last allowed round: completion is
// forced unconditionally, regardless of information sufficiency.
const clarificationFinalFormat = `This is the final confirmation round; set isComplete to true. Return JSON:
` + "```json" + `
{
  "questions": [],
  "isComplete": true
}
` + "```"

// ClarificationMessage returns the system message for a clarification
// round. On the final allowed round the model is instructed to report
// completion unconditionally.
func ClarificationMessage(round, maxRounds int) models.Message {
	remaining := maxRounds - round
	task := "based on the selected prompt framework, ask clarification questions that help the user complete their request"
	if remaining <= 0 {
		return SystemMessage("a friendly requirements analyst", task, clarificationFinalFormat)
	}
	task += fmt.Sprintf(". This is round %d, with %d confirmation round(s) remaining", round, remaining)
	return SystemMessage(
		"a friendly requirements analyst",
		task,
		fmt.Sprintf(clarificationQuestionsFormat, maxRounds),
	)
}

// GenerationSystemPrompt is the output requirement for the final
// composition phase.
const GenerationSystemPrompt = `Organize the prompt strictly along the framework's elements, with a clear structure and complete content. Output the final prompt as markdown.`

// GenerationMessage returns the system message for prompt generation.
func GenerationMessage() models.Message {
	return GenerationMessageFrom("")
}

// GenerationMessageFrom is GenerationMessage with the output requirement
// sourced from templatesDir when an override file exists there.
func GenerationMessageFrom(templatesDir string) models.Message {
	format, err := GetPrompt(KeyGeneration, templatesDir)
	if err != nil {
		format = GenerationSystemPrompt
	}
	return SystemMessage(
		"a prompt optimization expert",
		"generate an optimized prompt that strictly follows the specified prompt framework structure",
		format,
	)
}
