package catalog

import (
	"strings"

	"github.com/josephgoksu/PromptWing/models"
)

// section tags for the line scan.
type section int

const (
	sectionNone section = iota
	sectionScenarios
	sectionOverview
	sectionComponents
	sectionPros
	sectionCons
	sectionExamples
)

// ParseDetail turns a framework document into a FrameworkDetail. It is a
// pure, single forward pass over the lines: fixed heading markers switch
// the current section, and each section accumulates until the next heading.
// Malformed component rows are skipped silently.
func ParseDetail(content string, entry models.FrameworkIndexEntry) *models.FrameworkDetail {
	detail := &models.FrameworkDetail{
		ID:         entry.ID,
		Name:       entry.Name,
		NameEn:     entry.NameEn,
		Scenarios:  []string{},
		Components: []models.FrameworkComponent{},
		Pros:       []string{},
		Cons:       []string{},
		Examples:   []models.FrameworkExample{},
	}

	var (
		current        section
		overview       strings.Builder
		currentExample *models.FrameworkExample
		exampleBody    strings.Builder
		inTable        bool
		titleSeen      bool
	)

	flushExample := func() {
		if currentExample != nil {
			currentExample.Body = strings.TrimSpace(exampleBody.String())
			detail.Examples = append(detail.Examples, *currentExample)
			currentExample = nil
			exampleBody.Reset()
		}
	}

	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		// The title line supplies the English name exactly once.
		if strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## ") && !titleSeen {
			titleSeen = true
			name := strings.TrimSpace(strings.TrimPrefix(line, "# "))
			name = strings.TrimSpace(strings.TrimSuffix(name, "Framework"))
			if name != "" {
				detail.NameEn = name
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "## URL"):
			if i+1 < len(lines) {
				detail.URL = strings.TrimSpace(lines[i+1])
			}
			current = sectionNone
			continue
		case strings.HasPrefix(line, "## Scenarios"):
			current = sectionScenarios
			continue
		case strings.HasPrefix(line, "## Overview"):
			current = sectionOverview
			continue
		case strings.HasPrefix(line, "## Components"):
			current = sectionComponents
			inTable = false
			continue
		case strings.HasPrefix(line, "## Pros"):
			current = sectionPros
			continue
		case strings.HasPrefix(line, "## Cons"):
			current = sectionCons
			continue
		case strings.HasPrefix(line, "## Examples"):
			current = sectionExamples
			continue
		case strings.HasPrefix(line, "## "):
			// Unknown heading closes the current section.
			if current == sectionExamples {
				flushExample()
			}
			current = sectionNone
			continue
		}

		switch current {
		case sectionScenarios:
			if strings.HasPrefix(line, "- ") {
				detail.Scenarios = append(detail.Scenarios, strings.TrimPrefix(line, "- "))
			}
		case sectionOverview:
			if line != "" && !strings.HasPrefix(line, "#") {
				if overview.Len() > 0 {
					overview.WriteByte(' ')
				}
				overview.WriteString(line)
			}
		case sectionComponents:
			if !strings.HasPrefix(line, "|") {
				continue
			}
			cells := splitTableRow(line)
			if isSeparatorRow(cells) {
				continue
			}
			if !inTable {
				// The header row is recognized by its "Component" cell.
				if rowContains(cells, "Component") {
					inTable = true
				}
				continue
			}
			if len(cells) >= 3 {
				detail.Components = append(detail.Components, models.FrameworkComponent{
					NameNative:  cells[0],
					NameEn:      cells[1],
					Description: cells[2],
				})
			}
		case sectionPros:
			if strings.HasPrefix(line, "- ") {
				detail.Pros = append(detail.Pros, strings.TrimPrefix(line, "- "))
			}
		case sectionCons:
			if strings.HasPrefix(line, "- ") {
				detail.Cons = append(detail.Cons, strings.TrimPrefix(line, "- "))
			}
		case sectionExamples:
			if strings.HasPrefix(line, "### ") {
				flushExample()
				currentExample = &models.FrameworkExample{Title: strings.TrimPrefix(line, "### ")}
			} else if currentExample != nil && line != "" && !strings.HasPrefix(line, "#") {
				exampleBody.WriteString(line)
				exampleBody.WriteByte('\n')
			}
		}
	}
	flushExample()

	detail.Overview = strings.TrimSpace(overview.String())
	return detail
}

// splitTableRow splits a pipe-delimited row into trimmed, non-empty cells.
func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// isSeparatorRow reports whether every cell is a markdown alignment rule.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

func rowContains(cells []string, needle string) bool {
	for _, c := range cells {
		if strings.Contains(c, needle) {
			return true
		}
	}
	return false
}
