// Package engine holds the AI-backed conversation components: framework
// matching, clarification rounds, and final prompt composition. Each
// component builds its own instruction, sends it through a CompletionClient,
// and recovers a structured payload from whatever the model returned.
package engine

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/josephgoksu/PromptWing/types"
)

var fencedJSONPattern = regexp.MustCompile("```json\\s*([\\s\\S]*?)```")

// decodePayload recovers a JSON object from a model reply and unmarshals it
// into v. Three strategies are tried in order: a fenced ```json block, the
// widest brace-delimited span that mentions the required key, and finally
// the whole reply. The first candidate that unmarshals cleanly wins.
func decodePayload(reply, requiredKey string, v any) error {
	for _, candidate := range payloadCandidates(reply, requiredKey) {
		if json.Unmarshal([]byte(candidate), v) == nil {
			return nil
		}
	}
	return types.NewError(types.ErrParse, "no parseable JSON payload in model reply")
}

func payloadCandidates(reply, requiredKey string) []string {
	var out []string
	if m := fencedJSONPattern.FindStringSubmatch(reply); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if span := widestObjectSpan(reply, requiredKey); span != "" {
		out = append(out, span)
	}
	out = append(out, strings.TrimSpace(reply))
	return out
}

// widestObjectSpan returns the text from the first '{' to the last '}',
// provided that span quotes the required key. Greedy on purpose: the model
// may nest objects, and the outermost braces are the payload.
func widestObjectSpan(reply, requiredKey string) string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return ""
	}
	span := reply[start : end+1]
	if !strings.Contains(span, `"`+requiredKey+`"`) {
		return ""
	}
	return span
}
