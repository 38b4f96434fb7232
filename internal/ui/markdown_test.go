package ui

import "testing"

func TestCleanFencedBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain fence",
			in:   "```\n# Prompt\nbody\n```",
			want: "# Prompt\nbody",
		},
		{
			name: "markdown fence",
			in:   "```markdown\n# Prompt\n```",
			want: "# Prompt",
		},
		{
			name: "markdown fence uppercase",
			in:   "```Markdown\n# Prompt\n```",
			want: "# Prompt",
		},
		{
			name: "no fence",
			in:   "  # Prompt  ",
			want: "# Prompt",
		},
		{
			name: "inner fences kept",
			in:   "```markdown\nUse:\n```go\ncode\n```\n```",
			want: "Use:\n```go\ncode\n```",
		},
		{
			name: "language fence left alone",
			in:   "```go\ncode\n```",
			want: "```go\ncode\n```",
		},
		{
			name: "unterminated fence left alone",
			in:   "```\n# Prompt",
			want: "```\n# Prompt",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFencedBlock(tt.in); got != tt.want {
				t.Errorf("CleanFencedBlock(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderMarkdownNeverLosesContent(t *testing.T) {
	out := RenderMarkdown("# Title\n\nbody", 0)
	if out == "" {
		t.Error("render produced empty output")
	}
}
