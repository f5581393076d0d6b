package analysis

import (
	"sort"

	"github.com/KaramelBytes/review-profiler/internal/dataset"
)

// DefaultRareThreshold is the share of all rows (in percent) below which a
// label combination is reported as rare.
const DefaultRareThreshold = 1.0

// CrossTab is the polarity x type contingency table with margins.
type CrossTab struct {
	RowLabel  string
	ColLabel  string
	Rows      []string
	Cols      []string
	Counts    [][]int
	RowTotals []int
	ColTotals []int
	Total     int
}

// Combination is one (polarity, type) pair with its share of all rows.
type Combination struct {
	Polarity string
	Type     string
	Count    int
	Percent  float64
}

// CrossTabulate builds the full Cartesian table over the observed values of
// both columns. Rows where either label is null are left out. Row order
// follows rowOrder; columns are sorted ascending.
func CrossTabulate(rowCol, colCol *dataset.Column, rowOrder []string) CrossTab {
	ct := CrossTab{RowLabel: rowCol.Name, ColLabel: colCol.Name}
	pairs := map[[2]string]int{}
	rowSeen := map[string]bool{}
	colSeen := map[string]bool{}
	for i := 0; i < rowCol.Len(); i++ {
		r, ok1 := rowCol.Key(i)
		c, ok2 := colCol.Key(i)
		if !ok1 || !ok2 {
			continue
		}
		pairs[[2]string{r, c}]++
		rowSeen[r] = true
		colSeen[c] = true
		ct.Total++
	}
	for _, r := range rowOrder {
		if rowSeen[r] {
			ct.Rows = append(ct.Rows, r)
		}
	}
	for c := range colSeen {
		ct.Cols = append(ct.Cols, c)
	}
	numericCols := colCol.IsNumeric()
	sort.Slice(ct.Cols, func(i, j int) bool { return labelLess(ct.Cols[i], ct.Cols[j], numericCols) })

	ct.Counts = make([][]int, len(ct.Rows))
	ct.RowTotals = make([]int, len(ct.Rows))
	ct.ColTotals = make([]int, len(ct.Cols))
	for i, r := range ct.Rows {
		ct.Counts[i] = make([]int, len(ct.Cols))
		for j, c := range ct.Cols {
			n := pairs[[2]string{r, c}]
			ct.Counts[i][j] = n
			ct.RowTotals[i] += n
			ct.ColTotals[j] += n
		}
	}
	return ct
}

// Percent is cell (i, j) as a share of the grand total.
func (ct CrossTab) Percent(i, j int) float64 {
	if ct.Total == 0 {
		return 0
	}
	return float64(ct.Counts[i][j]) * 100.0 / float64(ct.Total)
}

// RowPercent is cell (i, j) as a share of its row total.
func (ct CrossTab) RowPercent(i, j int) float64 {
	if ct.RowTotals[i] == 0 {
		return 0
	}
	return float64(ct.Counts[i][j]) * 100.0 / float64(ct.RowTotals[i])
}

// Count returns the cell for a (row, col) label pair.
func (ct CrossTab) Count(row, col string) int {
	for i, r := range ct.Rows {
		if r != row {
			continue
		}
		for j, c := range ct.Cols {
			if c == col {
				return ct.Counts[i][j]
			}
		}
	}
	return 0
}

// RareCombinations lists every pair whose share of totalRows lies strictly
// between 0 and threshold percent. Pairs are visited in first-appearance
// order of each label.
func RareCombinations(ct CrossTab, polarityOrder, typeOrder []string, totalRows int, threshold float64) []Combination {
	if totalRows <= 0 {
		return nil
	}
	var out []Combination
	for _, p := range polarityOrder {
		for _, t := range typeOrder {
			n := ct.Count(p, t)
			if n == 0 {
				continue
			}
			pct := float64(n) * 100.0 / float64(totalRows)
			if pct < threshold {
				out = append(out, Combination{Polarity: p, Type: t, Count: n, Percent: pct})
			}
		}
	}
	return out
}
