// Package columns picks the text, title, polarity and type columns of a review
// dataset from column names first and value shapes second.
package columns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/review-profiler/internal/dataset"
	"github.com/rs/zerolog/log"
)

// Role names a column a profile run depends on.
type Role string

const (
	RoleText     Role = "text"
	RoleTitle    Role = "title"
	RolePolarity Role = "polarity"
	RoleType     Role = "type"
)

// TextSource records which rule produced the text column.
type TextSource string

const (
	TextNone     TextSource = ""
	TextReview   TextSource = "review"
	TextTitle    TextSource = "title"
	TextFreeForm TextSource = "free-text"
)

var (
	reviewKeywords   = []string{"review", "opinion", "text"}
	titleKeywords    = []string{"title", "titulo"}
	polarityKeywords = []string{"polari", "rating", "star"}
	typeKeywords     = []string{"tipo", "type", "atraccion", "attraction"}
)

const maxLabelCardinality = 5

// Selection is the resolved column per role; empty means unresolved.
type Selection struct {
	Text       string
	TextSource TextSource
	Title      string
	Polarity   string
	Type       string
}

// ColumnNotFoundError reports a required role no heuristic could resolve.
type ColumnNotFoundError struct {
	Role    Role
	Columns []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("no %s column found (checked name keywords and value shapes over columns: %s)",
		e.Role, strings.Join(e.Columns, ", "))
}

// Identify resolves every role without failing; callers decide which
// unresolved roles are fatal.
func Identify(t *dataset.Table) Selection {
	var sel Selection
	sel.Polarity = findPolarity(t)
	sel.Type = findType(t, sel.Polarity)

	free := freeTextColumns(t, sel)
	if c := firstMatching(free, reviewKeywords); c != "" {
		sel.Text, sel.TextSource = c, TextReview
	} else if c := firstMatching(free, titleKeywords); c != "" {
		sel.Text, sel.TextSource = c, TextTitle
	} else if len(free) > 0 {
		sel.Text, sel.TextSource = free[0], TextFreeForm
	}
	sel.Title = firstMatching(free, titleKeywords)
	return sel
}

// Resolve identifies columns and fails fast when polarity or type is missing.
// When both are missing the returned error joins one *ColumnNotFoundError per role.
func Resolve(t *dataset.Table) (Selection, error) {
	sel := Identify(t)
	var errs []error
	if sel.Polarity == "" {
		errs = append(errs, &ColumnNotFoundError{Role: RolePolarity, Columns: t.Names()})
	}
	if sel.Type == "" {
		errs = append(errs, &ColumnNotFoundError{Role: RoleType, Columns: t.Names()})
	}
	if err := errors.Join(errs...); err != nil {
		return sel, err
	}
	log.Debug().
		Str("text", sel.Text).
		Str("title", sel.Title).
		Str("polarity", sel.Polarity).
		Str("type", sel.Type).
		Msg("columns resolved")
	return sel, nil
}

func findPolarity(t *dataset.Table) string {
	if c := firstMatching(t.Names(), polarityKeywords); c != "" {
		return c
	}
	for _, col := range t.Columns {
		if !col.IsNumeric() {
			continue
		}
		lo, hi, ok := col.Range()
		if !ok || lo < 1 || hi > 5 {
			continue
		}
		if len(col.Distinct()) <= maxLabelCardinality {
			return col.Name
		}
	}
	return ""
}

func findType(t *dataset.Table, polarity string) string {
	var names []string
	for _, n := range t.Names() {
		if n != polarity {
			names = append(names, n)
		}
	}
	if c := firstMatching(names, typeKeywords); c != "" {
		return c
	}
	for _, col := range t.Columns {
		if col.Name == polarity || col.IsNumeric() || isFreeTextName(col.Name) {
			continue
		}
		if n := len(col.Distinct()); n > 0 && n <= maxLabelCardinality {
			return col.Name
		}
	}
	return ""
}

// freeTextColumns lists non-numeric columns not already holding a label.
func freeTextColumns(t *dataset.Table, sel Selection) []string {
	var out []string
	for _, col := range t.Columns {
		if col.IsNumeric() || col.Name == sel.Polarity || col.Name == sel.Type {
			continue
		}
		out = append(out, col.Name)
	}
	return out
}

func isFreeTextName(name string) bool {
	return containsAny(name, reviewKeywords) || containsAny(name, titleKeywords)
}

func firstMatching(names []string, keywords []string) string {
	for _, n := range names {
		if containsAny(n, keywords) {
			return n
		}
	}
	return ""
}

func containsAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
