package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/review-profiler/internal/columns"
	"github.com/KaramelBytes/review-profiler/internal/dataset"
)

// Level tags a report line so renderers can style it.
type Level int

const (
	LevelPlain Level = iota
	LevelHeading
	LevelOK
	LevelWarn
	LevelBullet
	LevelBar
	LevelTable
)

// Line is one rendered row of a section. Bar is only set for LevelBar.
type Line struct {
	Level Level
	Text  string
	Bar   string
}

// Section is a titled block of the console report.
type Section struct {
	Title string
	Lines []Line
}

func plain(format string, a ...any) Line {
	return Line{Level: LevelPlain, Text: fmt.Sprintf(format, a...)}
}

func heading(text string) Line {
	return Line{Level: LevelHeading, Text: text}
}

func okLine(format string, a ...any) Line {
	return Line{Level: LevelOK, Text: fmt.Sprintf(format, a...)}
}

func warn(format string, a ...any) Line {
	return Line{Level: LevelWarn, Text: fmt.Sprintf(format, a...)}
}

func bullet(format string, a ...any) Line {
	return Line{Level: LevelBullet, Text: fmt.Sprintf(format, a...)}
}

// Sections lays the report out in its fixed order.
func (r *Report) Sections() []Section {
	out := []Section{
		r.generalSection(),
		r.textColumnSection(),
		r.polaritySection(),
		r.typeSection(),
		r.crossSection(),
		r.textSection(),
		r.recommendationSection(),
	}
	if len(r.Warnings) > 0 {
		s := Section{Title: "Notes"}
		for _, w := range r.Warnings {
			s.Lines = append(s.Lines, warn("%s", w))
		}
		out = append(out, s)
	}
	out = append(out, Section{Title: "Analysis complete"})
	return out
}

func (r *Report) generalSection() Section {
	s := Section{Title: "General information"}
	if r.Name != "" {
		s.Lines = append(s.Lines, plain("File: %s", r.Name))
	}
	names := make([]string, len(r.Schema))
	for i, c := range r.Schema {
		names[i] = c.Name
	}
	s.Lines = append(s.Lines,
		plain("Total records: %s", Thousands(r.Rows)),
		plain("Columns: [%s]", strings.Join(names, ", ")),
		heading("Data types"),
	)
	width := 0
	for _, c := range r.Schema {
		width = max(width, len([]rune(c.Name)))
	}
	for _, c := range r.Schema {
		s.Lines = append(s.Lines, Line{Level: LevelTable, Text: fmt.Sprintf("%-*s  %s", width, c.Name, c.Kind)})
	}
	s.Lines = append(s.Lines, heading("Null values"))
	for _, c := range r.Schema {
		s.Lines = append(s.Lines, Line{Level: LevelTable, Text: fmt.Sprintf("%-*s  %d", width, c.Name, c.Nulls)})
	}
	return s
}

func (r *Report) textColumnSection() Section {
	s := Section{Title: "Text column"}
	sel := r.Selection
	switch {
	case sel.Text == "":
		s.Lines = append(s.Lines, warn("No text column identified automatically"))
	case sel.TextSource == columns.TextReview:
		s.Lines = append(s.Lines, okLine("Text column (review) identified: '%s'", sel.Text))
	case sel.TextSource == columns.TextTitle:
		s.Lines = append(s.Lines, warn("Only a title column was found: '%s' (not the full review)", sel.Text))
	default:
		s.Lines = append(s.Lines, okLine("Text column identified: '%s'", sel.Text))
	}
	if sel.Title != "" && sel.Title != sel.Text {
		s.Lines = append(s.Lines, plain("Title column: '%s'", sel.Title))
	}
	return s
}

func (r *Report) polaritySection() Section {
	s := Section{Title: "1. Polarity analysis"}
	s.Lines = append(s.Lines, plain("Polarity column: '%s'", r.Polarity.Column), heading("Polarity distribution"))
	for _, c := range r.Polarity.Categories {
		s.Lines = append(s.Lines, Line{
			Level: LevelBar,
			Text:  fmt.Sprintf("Polarity %s: %6s (%5.2f%%)", c.Value, Thousands(c.Count), c.Percent),
			Bar:   Bar(c.Percent),
		})
	}
	if r.Polarity.Missing > 0 {
		s.Lines = append(s.Lines, warn("%s rows without a polarity label", Thousands(r.Polarity.Missing)))
	}
	s.Lines = append(s.Lines, imbalanceLines(r.PolarityImbalance)...)
	switch r.PolaritySeverity {
	case PolaritySevere:
		s.Lines = append(s.Lines, warn("SEVERE imbalance (>10:1): aggressive techniques recommended"))
	case PolarityModerate:
		s.Lines = append(s.Lines, warn("MODERATE imbalance (>5:1): balancing recommended"))
	default:
		s.Lines = append(s.Lines, okLine("MILD imbalance (<5:1): class weights may be enough"))
	}
	return s
}

func (r *Report) typeSection() Section {
	s := Section{Title: "2. Attraction type analysis"}
	s.Lines = append(s.Lines, plain("Type column: '%s'", r.Type.Column), heading("Attraction type distribution"))
	for _, c := range r.Type.Categories {
		s.Lines = append(s.Lines, Line{
			Level: LevelBar,
			Text:  fmt.Sprintf("%-20s: %6s (%5.2f%%)", c.Value, Thousands(c.Count), c.Percent),
			Bar:   Bar(c.Percent),
		})
	}
	if r.Type.Missing > 0 {
		s.Lines = append(s.Lines, warn("%s rows without a type label", Thousands(r.Type.Missing)))
	}
	s.Lines = append(s.Lines, imbalanceLines(r.TypeImbalance)...)
	switch r.TypeSeverity {
	case TypeSignificant:
		s.Lines = append(s.Lines, warn("SIGNIFICANT imbalance: consider balancing"))
	case TypeMild:
		s.Lines = append(s.Lines, warn("MILD imbalance: class weights recommended"))
	default:
		s.Lines = append(s.Lines, okLine("ACCEPTABLE distribution"))
	}
	return s
}

func imbalanceLines(im Imbalance) []Line {
	lines := []Line{heading("Imbalance metrics")}
	if im.Majority.Count > 0 {
		lines = append(lines,
			bullet("Majority class: %s with %s samples", im.Majority.Value, Thousands(im.Majority.Count)),
			bullet("Minority class: %s with %s samples", im.Minority.Value, Thousands(im.Minority.Count)),
		)
	}
	lines = append(lines, bullet("Imbalance ratio: %s", FormatRatio(im)))
	return lines
}

// FormatRatio prints a defined ratio as "r:1" and an undefined one as N/A.
func FormatRatio(im Imbalance) string {
	if !im.Defined {
		return "N/A"
	}
	return fmt.Sprintf("%.2f:1", im.Ratio)
}

func (r *Report) crossSection() Section {
	ct := r.Cross
	s := Section{Title: fmt.Sprintf("3. Cross analysis (%s x %s)", ct.RowLabel, ct.ColLabel)}

	s.Lines = append(s.Lines, heading("Contingency table (counts)"))
	header := append(append([]string{}, ct.Cols...), "All")
	var rows [][]string
	for i, label := range ct.Rows {
		row := []string{label}
		for j := range ct.Cols {
			row = append(row, strconv.Itoa(ct.Counts[i][j]))
		}
		rows = append(rows, append(row, strconv.Itoa(ct.RowTotals[i])))
	}
	all := []string{"All"}
	for _, n := range ct.ColTotals {
		all = append(all, strconv.Itoa(n))
	}
	rows = append(rows, append(all, strconv.Itoa(ct.Total)))
	s.Lines = append(s.Lines, gridLines(ct.RowLabel, header, rows)...)

	s.Lines = append(s.Lines, heading("Contingency table (% of all rows)"))
	s.Lines = append(s.Lines, gridLines(ct.RowLabel, ct.Cols, ct.percentRows(ct.Percent))...)

	s.Lines = append(s.Lines, heading("Contingency table (% within polarity)"))
	s.Lines = append(s.Lines, gridLines(ct.RowLabel, ct.Cols, ct.percentRows(ct.RowPercent))...)

	s.Lines = append(s.Lines, heading(fmt.Sprintf("Combinations with <%s%% of the data", dataset.FormatNumber(r.RareThreshold))))
	if len(r.Rare) == 0 {
		s.Lines = append(s.Lines, okLine("None"))
	}
	for _, c := range r.Rare {
		s.Lines = append(s.Lines, bullet("Polarity %s + %s: %d samples (%.2f%%)", c.Polarity, c.Type, c.Count, c.Percent))
	}
	return s
}

func (ct CrossTab) percentRows(pct func(i, j int) float64) [][]string {
	out := make([][]string, len(ct.Rows))
	for i, label := range ct.Rows {
		row := []string{label}
		for j := range ct.Cols {
			row = append(row, strconv.FormatFloat(math.Round(pct(i, j)*100)/100, 'f', 2, 64))
		}
		out[i] = row
	}
	return out
}

// gridLines right-aligns a small table; the first cell of each row is its label.
func gridLines(corner string, header []string, rows [][]string) []Line {
	widths := make([]int, len(header)+1)
	widths[0] = len([]rune(corner))
	for j, h := range header {
		widths[j+1] = len([]rune(h))
	}
	for _, row := range rows {
		for j, cell := range row {
			if j < len(widths) {
				widths[j] = max(widths[j], len([]rune(cell)))
			}
		}
	}
	format := func(cells []string) string {
		var b strings.Builder
		for j, cell := range cells {
			if j == 0 {
				b.WriteString(fmt.Sprintf("%-*s", widths[0], cell))
				continue
			}
			b.WriteString(fmt.Sprintf("  %*s", widths[j], cell))
		}
		return b.String()
	}
	lines := []Line{{Level: LevelTable, Text: format(append([]string{corner}, header...))}}
	for _, row := range rows {
		lines = append(lines, Line{Level: LevelTable, Text: format(row)})
	}
	return lines
}

func (r *Report) textSection() Section {
	s := Section{Title: "4. Text analysis"}
	for _, tp := range r.Texts {
		s.Lines = append(s.Lines, heading(fmt.Sprintf("Column '%s'", tp.Column)))
		s.Lines = append(s.Lines, plain("Characters:"))
		s.Lines = append(s.Lines, statLines(tp.Chars)...)
		s.Lines = append(s.Lines, plain("Words:"))
		s.Lines = append(s.Lines, statLines(tp.Words)...)
		s.Lines = append(s.Lines, plain("Examples of %s by polarity:", tp.Column))
		for _, ex := range tp.Examples {
			if ex.Empty {
				s.Lines = append(s.Lines, warn("Polarity %s: no text in the sampled row", ex.Polarity))
				continue
			}
			s.Lines = append(s.Lines, plain("  Polarity %s:", ex.Polarity), plain("    %s", ex.Text))
		}
	}
	switch r.TextChoice {
	case "":
	case "Review":
		s.Lines = append(s.Lines, okLine("RECOMMENDATION: use column '%s' for the model (full reviews with more context)", r.TextChoice))
	case "Title":
		s.Lines = append(s.Lines, warn("Only column '%s' is available (short titles)", r.TextChoice))
	default:
		s.Lines = append(s.Lines, okLine("RECOMMENDATION: use column '%s' for the model", r.TextChoice))
	}
	return s
}

func statLines(st SeriesStats) []Line {
	return []Line{
		bullet("Mean: %.1f", st.Mean),
		bullet("Median: %.1f", st.Median),
		bullet("Std: %s", formatStd(st.Std)),
		bullet("Min: %s", dataset.FormatNumber(st.Min)),
		bullet("Max: %s", dataset.FormatNumber(st.Max)),
		bullet("Q1 (25%%): %.1f", st.Q1),
		bullet("Q3 (75%%): %.1f", st.Q3),
	}
}

func formatStd(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.1f", v)
}

func (r *Report) recommendationSection() Section {
	s := Section{Title: "5. Initial recommendations"}
	s.Lines = append(s.Lines, heading("Suggested strategy for polarity"))
	s.Lines = append(s.Lines, adviceLines(r.PolarityAdvice)...)
	s.Lines = append(s.Lines, heading("Suggested strategy for attraction type"))
	s.Lines = append(s.Lines, adviceLines(r.TypeAdvice)...)
	s.Lines = append(s.Lines, heading("Suggested architecture"))
	for _, n := range ArchitectureNotes {
		if strings.HasPrefix(n, "  ") {
			s.Lines = append(s.Lines, plain("  %s", n))
			continue
		}
		s.Lines = append(s.Lines, bullet("%s", n))
	}
	s.Lines = append(s.Lines, heading("Evaluation metrics"))
	for _, n := range MetricNotes {
		s.Lines = append(s.Lines, plain("%s", n))
	}
	return s
}

func adviceLines(advice []Advice) []Line {
	out := make([]Line, 0, len(advice))
	for i, a := range advice {
		text := fmt.Sprintf("%d. %s %s", i+1, stanceMark(a.Stance), a.Text)
		switch a.Stance {
		case StanceAvoid, StanceCaution:
			out = append(out, Line{Level: LevelWarn, Text: text})
		default:
			out = append(out, Line{Level: LevelPlain, Text: text})
		}
	}
	return out
}

func stanceMark(s Stance) string {
	switch s {
	case StanceDo:
		return "[do]"
	case StanceConsider:
		return "[consider]"
	case StanceAvoid:
		return "[avoid]"
	default:
		return "[caution]"
	}
}

// Thousands formats n with comma group separators.
func Thousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
