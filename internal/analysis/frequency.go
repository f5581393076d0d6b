package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/review-profiler/internal/dataset"
)

// Ordering selects how frequency table categories are listed.
type Ordering int

const (
	// ByValue sorts ordinal labels ascending (numerically for numeric columns).
	ByValue Ordering = iota
	// ByCount sorts nominal labels by descending count, ties by first appearance.
	ByCount
)

// Category is one row of a frequency table.
type Category struct {
	Value   string
	Count   int
	Percent float64
}

// FrequencyTable is the per-category distribution of one label column.
type FrequencyTable struct {
	Column     string
	Labeled    int // rows with a non-null label
	Missing    int
	Categories []Category
}

// Imbalance compares the largest and the smallest observed category.
// Categories that never occur are not part of the table and so never count
// as the minority.
type Imbalance struct {
	Majority Category
	Minority Category
	Ratio    float64
	Defined  bool
}

// Frequencies counts the distinct non-null values of col.
func Frequencies(col *dataset.Column, order Ordering) FrequencyTable {
	ft := FrequencyTable{Column: col.Name}
	counts := map[string]int{}
	var seen []string
	for i := 0; i < col.Len(); i++ {
		k, ok := col.Key(i)
		if !ok {
			ft.Missing++
			continue
		}
		if _, dup := counts[k]; !dup {
			seen = append(seen, k)
		}
		counts[k]++
		ft.Labeled++
	}
	ft.Categories = make([]Category, 0, len(seen))
	for _, k := range seen {
		c := Category{Value: k, Count: counts[k]}
		if ft.Labeled > 0 {
			c.Percent = float64(c.Count) * 100.0 / float64(ft.Labeled)
		}
		ft.Categories = append(ft.Categories, c)
	}
	switch order {
	case ByValue:
		sortLabels(ft.Categories, col.IsNumeric())
	case ByCount:
		sort.SliceStable(ft.Categories, func(i, j int) bool {
			return ft.Categories[i].Count > ft.Categories[j].Count
		})
	}
	return ft
}

func sortLabels(cats []Category, numeric bool) {
	sort.SliceStable(cats, func(i, j int) bool {
		return labelLess(cats[i].Value, cats[j].Value, numeric)
	})
}

func labelLess(a, b string, numeric bool) bool {
	if numeric {
		fa, ea := strconv.ParseFloat(a, 64)
		fb, eb := strconv.ParseFloat(b, 64)
		if ea == nil && eb == nil {
			return fa < fb
		}
	}
	return a < b
}

// Imbalance returns max(count)/min(count). With fewer than two categories
// the ratio is undefined.
func (ft FrequencyTable) Imbalance() Imbalance {
	var im Imbalance
	if len(ft.Categories) == 0 {
		return im
	}
	im.Majority = ft.Categories[0]
	im.Minority = ft.Categories[0]
	for _, c := range ft.Categories[1:] {
		if c.Count > im.Majority.Count {
			im.Majority = c
		}
		if c.Count < im.Minority.Count {
			im.Minority = c
		}
	}
	if len(ft.Categories) < 2 || im.Minority.Count == 0 {
		return im
	}
	im.Ratio = float64(im.Majority.Count) / float64(im.Minority.Count)
	im.Defined = true
	return im
}

// Counts returns the table as a value -> count mapping.
func (ft FrequencyTable) Counts() map[string]int {
	out := make(map[string]int, len(ft.Categories))
	for _, c := range ft.Categories {
		out[c.Value] = c.Count
	}
	return out
}

// Values returns the category values in table order.
func (ft FrequencyTable) Values() []string {
	out := make([]string, len(ft.Categories))
	for i, c := range ft.Categories {
		out[i] = c.Value
	}
	return out
}

// Bar renders pct/2 block characters, truncated toward zero.
func Bar(pct float64) string {
	n := int(math.Trunc(pct / 2))
	if n <= 0 {
		return ""
	}
	return strings.Repeat("█", n)
}

// PolaritySeverity classifies a polarity imbalance ratio.
type PolaritySeverity string

const (
	PolaritySevere   PolaritySeverity = "severe"
	PolarityModerate PolaritySeverity = "moderate"
	PolarityMild     PolaritySeverity = "mild"
)

// ClassifyPolarity applies the strict >10 / >5 thresholds.
func ClassifyPolarity(im Imbalance) PolaritySeverity {
	switch {
	case im.Defined && im.Ratio > 10:
		return PolaritySevere
	case im.Defined && im.Ratio > 5:
		return PolarityModerate
	default:
		return PolarityMild
	}
}

// TypeSeverity classifies an attraction type imbalance ratio.
type TypeSeverity string

const (
	TypeSignificant TypeSeverity = "significant"
	TypeMild        TypeSeverity = "mild"
	TypeAcceptable  TypeSeverity = "acceptable"
)

// ClassifyType applies the strict >5 / >2 thresholds.
func ClassifyType(im Imbalance) TypeSeverity {
	switch {
	case im.Defined && im.Ratio > 5:
		return TypeSignificant
	case im.Defined && im.Ratio > 2:
		return TypeMild
	default:
		return TypeAcceptable
	}
}
