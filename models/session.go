/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package models

// Stage is the conversation state. Transitions are owned exclusively by the
// conversation controller.
type Stage string

const (
	StageInitial    Stage = "initial"
	StageMatching   Stage = "matching"
	StageClarifying Stage = "clarifying"
	StageGenerating Stage = "generating"
	StageComplete   Stage = "complete"
)

// Message is one chat turn, for both provider requests and session history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClarificationData accumulates everything learned about the user's
// request. Fields are appended or merged across rounds, never cleared
// except on a new conversation.
type ClarificationData struct {
	OriginalInput      string `json:"originalInput"`
	Goal               string `json:"goal"`
	Audience           string `json:"audience"`
	Context            string `json:"context"`
	FormatRequirements string `json:"formatRequirements"`
	Constraints        string `json:"constraints"`
	AdditionalInfo     string `json:"additionalInfo"`
}

// ClarificationQuestion is one question the engine wants answered.
type ClarificationQuestion struct {
	Dimension string `json:"dimension"`
	Question  string `json:"question"`
	Hint      string `json:"hint"`
}

// ClarificationResult is the engine's advisory output for one round. The
// round ceiling enforced by the controller is authoritative, not IsComplete.
type ClarificationResult struct {
	Questions  []ClarificationQuestion `json:"questions"`
	IsComplete bool                    `json:"isComplete"`
}

// Session is the single live conversation. Exactly one instance exists; it
// is replaced wholesale on "new conversation", never partially reset.
type Session struct {
	ID              string
	Stage           Stage
	UserInput       string
	Recommended     []RankedFramework
	Selected        *FrameworkDetail
	Round           int
	MaxRounds       int
	Data            ClarificationData
	History         []Message
	GeneratedPrompt string
	Adjustments     int
}
