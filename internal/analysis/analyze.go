package analysis

import (
	"fmt"

	"github.com/KaramelBytes/review-profiler/internal/columns"
	"github.com/KaramelBytes/review-profiler/internal/dataset"
	"github.com/rs/zerolog/log"
)

// Options controls the profile computation.
type Options struct {
	// TextColumns are profiled in order when present in the table.
	TextColumns []string
	// PreferredText picks the recommended text column: first present wins.
	PreferredText []string
	// RareThreshold is the percent of all rows below which a label pair is rare.
	RareThreshold float64
	// ExampleMaxChars truncates example texts; 0 disables truncation.
	ExampleMaxChars int
}

// DefaultOptions mirrors the Rest-Mex layout: short titles plus full reviews.
func DefaultOptions() Options {
	return Options{
		TextColumns:     []string{"Title", "Review"},
		PreferredText:   []string{"Review", "Title"},
		RareThreshold:   DefaultRareThreshold,
		ExampleMaxChars: 200,
	}
}

// ColumnInfo is the dtype and null count of one input column.
type ColumnInfo struct {
	Name  string
	Kind  dataset.Kind
	Nulls int
}

// Report carries every computed value of a profile run. Rendering is done
// separately from Sections.
type Report struct {
	Name      string
	Rows      int
	Schema    []ColumnInfo
	Selection columns.Selection

	Polarity          FrequencyTable
	PolarityImbalance Imbalance
	PolaritySeverity  PolaritySeverity

	Type          FrequencyTable
	TypeImbalance Imbalance
	TypeSeverity  TypeSeverity

	Cross         CrossTab
	Rare          []Combination
	RareThreshold float64

	Texts []TextProfile
	// TextChoice is the text column recommended for modeling after profiling.
	TextChoice string

	PolarityAdvice []Advice
	TypeAdvice     []Advice

	Warnings []string
}

// TextColumn is the text column handed to downstream steps: the profiled
// recommendation when there is one, else the heuristic pick.
func (r *Report) TextColumn() string {
	if r.TextChoice != "" {
		return r.TextChoice
	}
	return r.Selection.Text
}

// Analyze computes distributions, cross tabulation, text statistics and
// recommendations. Polarity and type must be resolved.
func Analyze(t *dataset.Table, sel columns.Selection, opt Options) (*Report, error) {
	pol, ok := t.Column(sel.Polarity)
	if !ok {
		return nil, &columns.ColumnNotFoundError{Role: columns.RolePolarity, Columns: t.Names()}
	}
	typ, ok := t.Column(sel.Type)
	if !ok {
		return nil, &columns.ColumnNotFoundError{Role: columns.RoleType, Columns: t.Names()}
	}
	if opt.RareThreshold <= 0 {
		opt.RareThreshold = DefaultRareThreshold
	}

	rep := &Report{Name: t.Name, Rows: t.Len(), Selection: sel, RareThreshold: opt.RareThreshold}
	for _, c := range t.Columns {
		rep.Schema = append(rep.Schema, ColumnInfo{Name: c.Name, Kind: c.Kind, Nulls: c.NullCount()})
	}
	if sel.Text == "" {
		rep.Warnings = append(rep.Warnings, "no text column identified automatically")
	}

	rep.Polarity = Frequencies(pol, ByValue)
	rep.PolarityImbalance = rep.Polarity.Imbalance()
	rep.PolaritySeverity = ClassifyPolarity(rep.PolarityImbalance)

	rep.Type = Frequencies(typ, ByCount)
	rep.TypeImbalance = rep.Type.Imbalance()
	rep.TypeSeverity = ClassifyType(rep.TypeImbalance)

	rep.Cross = CrossTabulate(pol, typ, rep.Polarity.Values())
	rep.Rare = RareCombinations(rep.Cross, pol.Distinct(), typ.Distinct(), t.Len(), opt.RareThreshold)

	for _, name := range textColumnsToProfile(t, sel, opt) {
		col, _ := t.Column(name)
		tp, err := ProfileText(col, pol, rep.Polarity.Values(), opt.ExampleMaxChars)
		if err != nil {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("skipped text profile for %s: %v", name, err))
			continue
		}
		if len(tp.Examples) == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("no example rows for %s", name))
		}
		rep.Texts = append(rep.Texts, tp)
	}
	if len(rep.Texts) == 0 {
		rep.Warnings = append(rep.Warnings, "no text column available for length analysis")
	}
	for _, name := range opt.PreferredText {
		if t.Has(name) {
			rep.TextChoice = name
			break
		}
	}

	rep.PolarityAdvice = PolarityAdvice(rep.PolarityImbalance)
	rep.TypeAdvice = TypeAdvice(rep.TypeImbalance)

	ev := log.Info().Int("rows", rep.Rows)
	// undefined ratios are omitted rather than logged as 0
	if rep.PolarityImbalance.Defined {
		ev = ev.Float64("polarity_imbalance", rep.PolarityImbalance.Ratio)
	}
	if rep.TypeImbalance.Defined {
		ev = ev.Float64("type_imbalance", rep.TypeImbalance.Ratio)
	}
	ev.Int("rare_combinations", len(rep.Rare)).Msg("profile computed")
	return rep, nil
}

func textColumnsToProfile(t *dataset.Table, sel columns.Selection, opt Options) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		if name == "" || seen[name] || !t.Has(name) {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range opt.TextColumns {
		add(name)
	}
	if len(out) == 0 {
		add(sel.Title)
		add(sel.Text)
	}
	return out
}
