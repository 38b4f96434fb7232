package catalog

import (
	"reflect"
	"testing"

	"github.com/josephgoksu/PromptWing/models"
)

const sampleDoc = `# SCQA Framework

## URL
https://example.com/scqa

## Scenarios
- Structured storytelling
- Persuasive proposals

## Overview
First line of the overview.
Second line of the overview.

## Components
| Component (native) | Component (EN) | Description |
|---|---|---|
| 情境 | Situation | The stable starting context |
| 冲突 | Complication | The disruption |
| broken row |
| 问题 | Question | The sharpened question |
| 答案 | Answer | The resolution |

## Pros
- Natural narrative arc
- Explicit core question

## Cons
- Overkill for simple requests

## Examples

### Product launch
Situation: customers rely on nightly export.
Answer: streaming export.

### Budget proposal
Situation: ticket volume doubled.
`

func sampleEntry() models.FrameworkIndexEntry {
	return models.FrameworkIndexEntry{
		ID:     7,
		Name:   "SCQA框架",
		NameEn: "placeholder",
	}
}

func TestParseDetailSections(t *testing.T) {
	d := ParseDetail(sampleDoc, sampleEntry())

	if d.ID != 7 {
		t.Errorf("ID = %d, want 7", d.ID)
	}
	if d.Name != "SCQA框架" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.NameEn != "SCQA" {
		t.Errorf("NameEn = %q, want title-derived SCQA", d.NameEn)
	}
	if d.URL != "https://example.com/scqa" {
		t.Errorf("URL = %q", d.URL)
	}
	wantScenarios := []string{"Structured storytelling", "Persuasive proposals"}
	if !reflect.DeepEqual(d.Scenarios, wantScenarios) {
		t.Errorf("Scenarios = %v, want %v", d.Scenarios, wantScenarios)
	}
	if d.Overview != "First line of the overview. Second line of the overview." {
		t.Errorf("Overview = %q", d.Overview)
	}
	if len(d.Pros) != 2 || len(d.Cons) != 1 {
		t.Errorf("Pros/Cons = %v / %v", d.Pros, d.Cons)
	}
}

func TestParseDetailComponents(t *testing.T) {
	d := ParseDetail(sampleDoc, sampleEntry())

	// Header and separator rows are not components, and the malformed
	// two-cell row is skipped without disturbing later rows.
	want := []models.FrameworkComponent{
		{NameNative: "情境", NameEn: "Situation", Description: "The stable starting context"},
		{NameNative: "冲突", NameEn: "Complication", Description: "The disruption"},
		{NameNative: "问题", NameEn: "Question", Description: "The sharpened question"},
		{NameNative: "答案", NameEn: "Answer", Description: "The resolution"},
	}
	if !reflect.DeepEqual(d.Components, want) {
		t.Errorf("Components = %v, want %v", d.Components, want)
	}
}

func TestParseDetailExamples(t *testing.T) {
	d := ParseDetail(sampleDoc, sampleEntry())

	if len(d.Examples) != 2 {
		t.Fatalf("got %d examples, want 2", len(d.Examples))
	}
	if d.Examples[0].Title != "Product launch" {
		t.Errorf("first example title = %q", d.Examples[0].Title)
	}
	if d.Examples[1].Title != "Budget proposal" {
		t.Errorf("second example title = %q", d.Examples[1].Title)
	}
	if d.Examples[1].Body != "Situation: ticket volume doubled." {
		t.Errorf("second example body = %q", d.Examples[1].Body)
	}
}

func TestParseDetailDeterministic(t *testing.T) {
	a := ParseDetail(sampleDoc, sampleEntry())
	b := ParseDetail(sampleDoc, sampleEntry())
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated parses of the same document differ")
	}
}

func TestParseDetailEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, d *models.FrameworkDetail)
	}{
		{
			name:    "empty document",
			content: "",
			check: func(t *testing.T, d *models.FrameworkDetail) {
				if d.NameEn != "placeholder" {
					t.Errorf("NameEn = %q, want index fallback", d.NameEn)
				}
				if len(d.Components) != 0 || len(d.Scenarios) != 0 {
					t.Error("expected empty collections")
				}
			},
		},
		{
			name:    "title without Framework suffix",
			content: "# CO-STAR\n",
			check: func(t *testing.T, d *models.FrameworkDetail) {
				if d.NameEn != "CO-STAR" {
					t.Errorf("NameEn = %q", d.NameEn)
				}
			},
		},
		{
			name:    "second title line ignored",
			content: "# First Framework\n# Second Framework\n",
			check: func(t *testing.T, d *models.FrameworkDetail) {
				if d.NameEn != "First" {
					t.Errorf("NameEn = %q, want First", d.NameEn)
				}
			},
		},
		{
			name:    "unknown heading closes scenarios",
			content: "# X Framework\n\n## Scenarios\n- kept\n\n## Whatever\n- dropped\n",
			check: func(t *testing.T, d *models.FrameworkDetail) {
				want := []string{"kept"}
				if !reflect.DeepEqual(d.Scenarios, want) {
					t.Errorf("Scenarios = %v, want %v", d.Scenarios, want)
				}
			},
		},
		{
			name:    "table without header row yields no components",
			content: "# X Framework\n\n## Components\n| a | b | c |\n| d | e | f |\n",
			check: func(t *testing.T, d *models.FrameworkDetail) {
				if len(d.Components) != 0 {
					t.Errorf("Components = %v, want none without a header", d.Components)
				}
			},
		},
		{
			name:    "url heading at end of file",
			content: "# X Framework\n\n## URL",
			check: func(t *testing.T, d *models.FrameworkDetail) {
				if d.URL != "" {
					t.Errorf("URL = %q, want empty", d.URL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ParseDetail(tt.content, sampleEntry()))
		})
	}
}

func TestSplitTableRow(t *testing.T) {
	got := splitTableRow("| a | b | c |")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTableRow = %v, want %v", got, want)
	}
}

func TestIsSeparatorRow(t *testing.T) {
	if !isSeparatorRow([]string{"---", ":---", "---:"}) {
		t.Error("alignment rule not recognized as separator")
	}
	if isSeparatorRow([]string{"---", "text"}) {
		t.Error("mixed row wrongly recognized as separator")
	}
	if isSeparatorRow(nil) {
		t.Error("empty row wrongly recognized as separator")
	}
}
