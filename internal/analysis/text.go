package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/review-profiler/internal/dataset"
	"github.com/KaramelBytes/review-profiler/internal/utils"
	"github.com/montanaflynn/stats"
)

// SeriesStats summarizes a numeric series.
type SeriesStats struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	Q1     float64
	Q3     float64
}

// Example is one sample text for a polarity value. Empty is set when the
// sampled row has no text.
type Example struct {
	Polarity  string
	Text      string
	Truncated bool
	Empty     bool
}

// TextProfile holds length statistics and examples for one text column.
type TextProfile struct {
	Column   string
	Chars    SeriesStats
	Words    SeriesStats
	Examples []Example
}

// CharLengths derives the per-row length in characters. Null cells count as
// empty text.
func CharLengths(col *dataset.Column) []float64 {
	out := make([]float64, col.Len())
	for i := range out {
		out[i] = float64(utf8.RuneCountInString(col.Text(i)))
	}
	return out
}

// WordCounts derives the per-row number of whitespace-delimited words.
func WordCounts(col *dataset.Column) []float64 {
	out := make([]float64, col.Len())
	for i := range out {
		out[i] = float64(len(strings.Fields(col.Text(i))))
	}
	return out
}

// Describe computes summary statistics. Std is the sample standard deviation
// and quartiles interpolate linearly between order statistics.
func Describe(series []float64) (SeriesStats, error) {
	var s SeriesStats
	if len(series) == 0 {
		return s, stats.ErrEmptyInput
	}
	data := stats.Float64Data(series)
	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, fmt.Errorf("mean: %w", err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, fmt.Errorf("median: %w", err)
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, fmt.Errorf("min: %w", err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, fmt.Errorf("max: %w", err)
	}
	if len(series) > 1 {
		if s.Std, err = stats.StandardDeviationSample(data); err != nil {
			return s, fmt.Errorf("std: %w", err)
		}
	} else {
		s.Std = math.NaN()
	}
	sorted := append([]float64(nil), series...)
	sort.Float64s(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Q3 = quantile(sorted, 0.75)
	s.Count = len(series)
	return s, nil
}

// ProfileText computes length statistics for textCol and picks the first
// text of each polarity value in polarityOrder.
func ProfileText(textCol, polarityCol *dataset.Column, polarityOrder []string, maxChars int) (TextProfile, error) {
	p := TextProfile{Column: textCol.Name}
	var err error
	if p.Chars, err = Describe(CharLengths(textCol)); err != nil {
		return p, fmt.Errorf("%s lengths: %w", textCol.Name, err)
	}
	if p.Words, err = Describe(WordCounts(textCol)); err != nil {
		return p, fmt.Errorf("%s words: %w", textCol.Name, err)
	}
	if polarityCol == nil {
		return p, nil
	}
	first := map[string]int{}
	for i := 0; i < polarityCol.Len(); i++ {
		k, ok := polarityCol.Key(i)
		if !ok {
			continue
		}
		if _, seen := first[k]; !seen {
			first[k] = i
		}
	}
	for _, pol := range polarityOrder {
		i, ok := first[pol]
		if !ok {
			continue
		}
		text, cut := utils.TruncateRunes(textCol.Text(i), maxChars)
		p.Examples = append(p.Examples, Example{
			Polarity:  pol,
			Text:      text,
			Truncated: cut,
			Empty:     strings.TrimSpace(text) == "",
		})
	}
	return p, nil
}

// quantile interpolates linearly on a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
