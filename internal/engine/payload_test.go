package engine

import (
	"testing"

	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/types"
)

func TestDecodePayload(t *testing.T) {
	type payload struct {
		Frameworks []models.RankedFramework `json:"frameworks"`
	}

	tests := []struct {
		name    string
		reply   string
		wantErr bool
		wantLen int
	}{
		{
			name:    "fenced json block",
			reply:   "Here you go:\n```json\n{\"frameworks\":[{\"name\":\"SCQA\",\"elements\":4}]}\n```\nHope it helps!",
			wantLen: 1,
		},
		{
			name:    "raw object with surrounding prose",
			reply:   "Sure! {\"frameworks\":[{\"name\":\"RTF\"},{\"name\":\"APE\"}]} Let me know.",
			wantLen: 2,
		},
		{
			name:    "whole reply is the object",
			reply:   `{"frameworks":[{"name":"STAR"}]}`,
			wantLen: 1,
		},
		{
			name:    "broken fence falls back to raw span",
			reply:   "```json\nnot json at all\n``` but also {\"frameworks\":[{\"name\":\"ICIO\"}]}",
			wantLen: 1,
		},
		{
			name:    "no json anywhere",
			reply:   "I could not decide on a framework.",
			wantErr: true,
		},
		{
			name:    "braces without the required key",
			reply:   "config is {\"other\": true} as discussed",
			wantErr: true,
		},
		{
			name:    "empty reply",
			reply:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := decodePayload(tt.reply, "frameworks", &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if types.CodeOf(err) != types.ErrParse {
					t.Errorf("error code = %v, want ErrParse", types.CodeOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("decodePayload: %v", err)
			}
			if len(got.Frameworks) != tt.wantLen {
				t.Errorf("got %d frameworks, want %d", len(got.Frameworks), tt.wantLen)
			}
		})
	}
}

func TestWidestObjectSpanIsGreedy(t *testing.T) {
	reply := `prefix {"outer": {"questions": []}} suffix`
	got := widestObjectSpan(reply, "questions")
	want := `{"outer": {"questions": []}}`
	if got != want {
		t.Errorf("widestObjectSpan = %q, want %q", got, want)
	}
}
