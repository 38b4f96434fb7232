/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package models

// FrameworkIndexEntry is one row of the catalog index. Loaded once at
// startup and read-only afterward.
type FrameworkIndexEntry struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	NameEn   string `json:"nameEn"`
	Filename string `json:"filename"`
	Scenario string `json:"scenario"`
	// DocumentPath is derived from Filename when the index is loaded.
	DocumentPath string `json:"-"`
}

// FrameworkComponent is one element of a framework's structure, as parsed
// from the component table of its document.
type FrameworkComponent struct {
	NameNative  string `json:"nameNative"`
	NameEn      string `json:"nameEn"`
	Description string `json:"description"`
}

// FrameworkExample is a worked example from a framework document.
type FrameworkExample struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FrameworkDetail is the fully parsed framework document. Immutable once
// built; cached by id for the process lifetime.
type FrameworkDetail struct {
	ID         int                  `json:"id"`
	Name       string               `json:"name"`
	NameEn     string               `json:"nameEn"`
	URL        string               `json:"url"`
	Scenarios  []string             `json:"scenarios"`
	Overview   string               `json:"overview"`
	Components []FrameworkComponent `json:"components"`
	Pros       []string             `json:"pros"`
	Cons       []string             `json:"cons"`
	Examples   []FrameworkExample   `json:"examples"`
}

// Complexity buckets a framework by its element count.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// ComplexityOf derives the bucket from the number of components: up to
// three is simple, up to five medium, anything larger complex.
func ComplexityOf(d *FrameworkDetail) Complexity {
	switch n := len(d.Components); {
	case n <= 3:
		return ComplexitySimple
	case n <= 5:
		return ComplexityMedium
	default:
		return ComplexityComplex
	}
}

// RankedFramework is one recommendation returned by the matcher. It is
// transient session state until the user picks one.
type RankedFramework struct {
	Name       string `json:"name"`
	NameEn     string `json:"nameEn"`
	Reason     string `json:"reason"`
	Complexity string `json:"complexity"`
	Elements   int    `json:"elements"`
}
