package analysis

import (
	"bytes"
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/KaramelBytes/review-profiler/internal/columns"
	"github.com/KaramelBytes/review-profiler/internal/dataset"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func buildTable(t *testing.T, header []string, rows [][]string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords("test.csv", header, rows)
	require.NoError(t, err)
	return tbl
}

type group struct {
	pol, typ string
	n        int
}

// labelRows expands groups into (polarity, type) rows.
func labelRows(groups ...group) [][]string {
	var rows [][]string
	for _, g := range groups {
		for i := 0; i < g.n; i++ {
			rows = append(rows, []string{g.pol, g.typ})
		}
	}
	return rows
}

func TestFrequenciesPolarity(t *testing.T) {
	rows := labelRows(
		group{"3", "Hotel", 50},
		group{"1", "Hotel", 10},
		group{"4", "Restaurant", 20},
		group{"2", "Attractive", 5},
		group{"5", "Restaurant", 15},
	)
	tbl := buildTable(t, []string{"Polarity", "Type"}, rows)
	pol, _ := tbl.Column("Polarity")

	ft := Frequencies(pol, ByValue)
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, ft.Values())
	assert.Equal(t, 100, ft.Labeled)

	sum, pct := 0, 0.0
	for _, c := range ft.Categories {
		sum += c.Count
		pct += c.Percent
	}
	assert.Equal(t, ft.Labeled, sum)
	assert.InDelta(t, 100.0, pct, 1e-9)

	im := ft.Imbalance()
	require.True(t, im.Defined)
	assert.Equal(t, "3", im.Majority.Value)
	assert.Equal(t, "2", im.Minority.Value)
	assert.InDelta(t, 10.0, im.Ratio, 1e-9)
	// exactly 10 is not severe
	assert.Equal(t, PolarityModerate, ClassifyPolarity(im))
	assert.Equal(t, "10.00:1", FormatRatio(im))
}

func TestFrequenciesTypeByCountKeepsFirstAppearanceOnTies(t *testing.T) {
	rows := labelRows(
		group{"5", "Restaurant", 3},
		group{"4", "Hotel", 3},
		group{"3", "Attractive", 6},
	)
	tbl := buildTable(t, []string{"Polarity", "Type"}, rows)
	typ, _ := tbl.Column("Type")

	ft := Frequencies(typ, ByCount)
	assert.Equal(t, []string{"Attractive", "Restaurant", "Hotel"}, ft.Values())
	assert.Equal(t, map[string]int{"Attractive": 6, "Restaurant": 3, "Hotel": 3}, ft.Counts())

	im := ft.Imbalance()
	assert.InDelta(t, 2.0, im.Ratio, 1e-9)
	assert.Equal(t, TypeAcceptable, ClassifyType(im))
}

func TestFrequenciesSkipsNullsAndNormalizesNumbers(t *testing.T) {
	tbl := buildTable(t, []string{"Polarity"}, [][]string{{"5"}, {"5.0"}, {""}, {"4"}, {"NaN"}})
	pol, _ := tbl.Column("Polarity")

	ft := Frequencies(pol, ByValue)
	assert.Equal(t, 3, ft.Labeled)
	assert.Equal(t, 2, ft.Missing)
	assert.Equal(t, map[string]int{"4": 1, "5": 2}, ft.Counts())
	assert.InDelta(t, 200.0/3, ft.Categories[1].Percent, 1e-9)
}

func TestImbalanceUndefinedWithSingleCategory(t *testing.T) {
	tbl := buildTable(t, []string{"Type"}, [][]string{{"Hotel"}, {"Hotel"}})
	typ, _ := tbl.Column("Type")

	im := Frequencies(typ, ByCount).Imbalance()
	assert.False(t, im.Defined)
	assert.Equal(t, "N/A", FormatRatio(im))
	assert.Equal(t, TypeAcceptable, ClassifyType(im))
	assert.Equal(t, PolarityMild, ClassifyPolarity(im))
	assert.Equal(t, TypeAdvice(Imbalance{Ratio: 1, Defined: true}), TypeAdvice(im))
}

func TestSeverityThresholdsAreStrict(t *testing.T) {
	cases := []struct {
		ratio float64
		pol   PolaritySeverity
		typ   TypeSeverity
	}{
		{1, PolarityMild, TypeAcceptable},
		{2, PolarityMild, TypeAcceptable},
		{2.01, PolarityMild, TypeMild},
		{5, PolarityMild, TypeMild},
		{5.5, PolarityModerate, TypeSignificant},
		{10, PolarityModerate, TypeSignificant},
		{10.5, PolaritySevere, TypeSignificant},
	}
	for _, c := range cases {
		im := Imbalance{Ratio: c.ratio, Defined: true}
		assert.Equal(t, c.pol, ClassifyPolarity(im), "ratio %v", c.ratio)
		assert.Equal(t, c.typ, ClassifyType(im), "ratio %v", c.ratio)
	}
}

func TestAdviceBrackets(t *testing.T) {
	cases := []struct {
		ratio float64
		n     int
		first Stance
	}{
		{25, 5, StanceAvoid},
		{20, 4, StanceDo},
		{10, 2, StanceDo},
		{5, 2, StanceDo},
	}
	for _, c := range cases {
		adv := PolarityAdvice(Imbalance{Ratio: c.ratio, Defined: true})
		require.Len(t, adv, c.n, "ratio %v", c.ratio)
		assert.Equal(t, c.first, adv[0].Stance, "ratio %v", c.ratio)
	}
	assert.Len(t, TypeAdvice(Imbalance{Ratio: 6, Defined: true}), 2)
	assert.Len(t, TypeAdvice(Imbalance{Ratio: 3, Defined: true}), 1)
	assert.Equal(t, "No special balancing required", TypeAdvice(Imbalance{Ratio: 2, Defined: true})[0].Text)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", Bar(1.99))
	assert.Equal(t, "█", Bar(2))
	assert.Equal(t, strings.Repeat("█", 25), Bar(50.9))
}

func TestCrossTabAndRareCombinations(t *testing.T) {
	rows := labelRows(
		group{"5", "Restaurant", 982},
		group{"1", "Hotel", 3},
		group{"2", "Hotel", 15},
	)
	tbl := buildTable(t, []string{"Polarity", "Type"}, rows)
	pol, _ := tbl.Column("Polarity")
	typ, _ := tbl.Column("Type")

	order := Frequencies(pol, ByValue).Values()
	ct := CrossTabulate(pol, typ, order)
	assert.Equal(t, []string{"1", "2", "5"}, ct.Rows)
	assert.Equal(t, []string{"Hotel", "Restaurant"}, ct.Cols)
	assert.Equal(t, 1000, ct.Total)
	assert.Equal(t, []int{18, 982}, ct.ColTotals)
	assert.Equal(t, 0, ct.Count("5", "Hotel"))
	assert.InDelta(t, 1.5, ct.Percent(1, 0), 1e-9)
	assert.InDelta(t, 100.0, ct.RowPercent(2, 1), 1e-9)

	var total float64
	for i := range ct.Rows {
		for j := range ct.Cols {
			total += ct.Percent(i, j)
		}
	}
	assert.InDelta(t, 100.0, total, 1e-9)

	rare := RareCombinations(ct, pol.Distinct(), typ.Distinct(), tbl.Len(), DefaultRareThreshold)
	require.Len(t, rare, 1)
	assert.Equal(t, Combination{Polarity: "1", Type: "Hotel", Count: 3, Percent: 0.3}, rare[0])
}

func TestRareThresholdIsExclusive(t *testing.T) {
	rows := labelRows(group{"1", "Hotel", 1}, group{"5", "Hotel", 99})
	tbl := buildTable(t, []string{"Polarity", "Type"}, rows)
	pol, _ := tbl.Column("Polarity")
	typ, _ := tbl.Column("Type")

	ct := CrossTabulate(pol, typ, []string{"1", "5"})
	assert.Empty(t, RareCombinations(ct, pol.Distinct(), typ.Distinct(), tbl.Len(), 1.0))
	assert.Len(t, RareCombinations(ct, pol.Distinct(), typ.Distinct(), tbl.Len(), 1.5), 1)
}

func TestDescribe(t *testing.T) {
	st, err := Describe([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, 4, st.Count)
	assert.InDelta(t, 2.5, st.Mean, 1e-9)
	assert.InDelta(t, 2.5, st.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), st.Std, 1e-9)
	assert.Equal(t, 1.0, st.Min)
	assert.Equal(t, 4.0, st.Max)
	assert.InDelta(t, 1.75, st.Q1, 1e-9)
	assert.InDelta(t, 3.25, st.Q3, 1e-9)

	one, err := Describe([]float64{7})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(one.Std))
	assert.Equal(t, 7.0, one.Q1)

	_, err = Describe(nil)
	assert.Error(t, err)
}

func TestProfileText(t *testing.T) {
	long := strings.Repeat("á", 12)
	tbl := buildTable(t, []string{"Review", "Polarity"}, [][]string{
		{"good food here", "5"},
		{long, "1"},
		{"", "5"},
		{"so so", "3"},
	})
	rev, _ := tbl.Column("Review")
	pol, _ := tbl.Column("Polarity")

	assert.Equal(t, []float64{14, 12, 0, 5}, CharLengths(rev))
	assert.Equal(t, []float64{3, 1, 0, 2}, WordCounts(rev))

	tp, err := ProfileText(rev, pol, []string{"1", "3", "5"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "Review", tp.Column)
	require.Len(t, tp.Examples, 3)
	assert.Equal(t, Example{Polarity: "1", Text: strings.Repeat("á", 10) + "...", Truncated: true}, tp.Examples[0])
	assert.Equal(t, "so so", tp.Examples[1].Text)
	assert.False(t, tp.Examples[1].Truncated)
	assert.Equal(t, Example{Polarity: "5", Text: "good food ...", Truncated: true}, tp.Examples[2])

	// a text exactly at the limit is kept whole
	atLimit, err := ProfileText(rev, pol, []string{"5"}, 14)
	require.NoError(t, err)
	require.Len(t, atLimit.Examples, 1)
	assert.Equal(t, Example{Polarity: "5", Text: "good food here"}, atLimit.Examples[0])
}

func TestEmptyExampleRendersAsWarning(t *testing.T) {
	tbl := buildTable(t, []string{"Review", "Polarity", "Type"}, [][]string{
		{"", "1", "Hotel"},
		{"lovely stay", "5", "Hotel"},
		{"NaN", "3", "Restaurant"},
		{"fine", "1", "Restaurant"},
	})
	sel := columns.Selection{Text: "Review", TextSource: columns.TextReview, Polarity: "Polarity", Type: "Type"}
	rep, err := Analyze(tbl, sel, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, rep.Texts, 1)
	ex := rep.Texts[0].Examples
	require.Len(t, ex, 3)
	assert.True(t, ex[0].Empty)
	assert.True(t, ex[1].Empty)
	assert.False(t, ex[2].Empty)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, rep.Sections(), false))
	out := buf.String()
	assert.Contains(t, out, "⚠ Polarity 1: no text in the sampled row")
	assert.Contains(t, out, "⚠ Polarity 3: no text in the sampled row")
	assert.Contains(t, out, "    lovely stay")
}

func reviewTable(t *testing.T) *dataset.Table {
	t.Helper()
	header := []string{"Title", "Review", "Polarity", "Town", "Type"}
	var rows [][]string
	add := func(n int, pol, typ string) {
		for i := 0; i < n; i++ {
			rows = append(rows, []string{"t" + strconv.Itoa(len(rows)), "review text number " + strconv.Itoa(len(rows)), pol, "Cancun", typ})
		}
	}
	add(60, "5", "Restaurant")
	add(25, "4", "Hotel")
	add(8, "3", "Attractive")
	add(4, "2", "Hotel")
	add(3, "1", "Restaurant")
	return buildTable(t, header, rows)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	tbl := reviewTable(t)
	sel, err := columns.Resolve(tbl)
	require.NoError(t, err)

	rep, err := Analyze(tbl, sel, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 100, rep.Rows)
	assert.Len(t, rep.Schema, 5)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, rep.Polarity.Values())
	assert.InDelta(t, 20.0, rep.PolarityImbalance.Ratio, 1e-9)
	assert.Equal(t, PolaritySevere, rep.PolaritySeverity)
	assert.Len(t, rep.PolarityAdvice, 4)
	assert.Equal(t, "Restaurant", rep.Type.Categories[0].Value)
	assert.InDelta(t, 63.0/8.0, rep.TypeImbalance.Ratio, 1e-9)
	assert.Equal(t, TypeSignificant, rep.TypeSeverity)
	assert.Equal(t, 100, rep.Cross.Total)
	assert.Empty(t, rep.Rare)

	require.Len(t, rep.Texts, 2)
	assert.Equal(t, "Title", rep.Texts[0].Column)
	assert.Equal(t, "Review", rep.Texts[1].Column)
	assert.Equal(t, "Review", rep.TextChoice)
	assert.Equal(t, "Review", rep.TextColumn())
	assert.Empty(t, rep.Warnings)
}

func TestAnalyzeFallsBackToResolvedTextColumns(t *testing.T) {
	tbl := buildTable(t, []string{"Comment", "Stars", "Category"}, [][]string{
		{"nice", "5", "Hotel"},
		{"awful", "1", "Restaurant"},
	})
	sel := columns.Selection{Text: "Comment", TextSource: columns.TextFreeForm, Polarity: "Stars", Type: "Category"}

	rep, err := Analyze(tbl, sel, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rep.Texts, 1)
	assert.Equal(t, "Comment", rep.Texts[0].Column)
	assert.Equal(t, "", rep.TextChoice)
	assert.Equal(t, "Comment", rep.TextColumn())
}

func TestAnalyzeWarnsWithoutTextColumn(t *testing.T) {
	tbl := buildTable(t, []string{"Stars", "Category"}, [][]string{{"5", "Hotel"}, {"1", "Hotel"}})
	rep, err := Analyze(tbl, columns.Selection{Polarity: "Stars", Type: "Category"}, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, rep.Texts)
	assert.Contains(t, rep.Warnings, "no text column available for length analysis")
	assert.False(t, rep.TypeImbalance.Defined)
}

func TestAnalyzeLogOmitsUndefinedRatio(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.Disabled)
	})

	tbl := buildTable(t, []string{"Stars", "Category"}, [][]string{{"5", "Hotel"}, {"1", "Hotel"}})
	_, err := Analyze(tbl, columns.Selection{Polarity: "Stars", Type: "Category"}, DefaultOptions())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"profile computed"`)
	assert.Contains(t, out, `"polarity_imbalance":1`)
	assert.NotContains(t, out, "type_imbalance")
}

func TestAnalyzeRequiresLabelColumns(t *testing.T) {
	tbl := buildTable(t, []string{"Stars"}, [][]string{{"5"}})
	_, err := Analyze(tbl, columns.Selection{Polarity: "Stars", Type: "Missing"}, DefaultOptions())
	var nf *columns.ColumnNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, columns.RoleType, nf.Role)
}

func TestSectionsOrderAndRender(t *testing.T) {
	tbl := reviewTable(t)
	sel, err := columns.Resolve(tbl)
	require.NoError(t, err)
	rep, err := Analyze(tbl, sel, DefaultOptions())
	require.NoError(t, err)

	sections := rep.Sections()
	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"General information",
		"Text column",
		"1. Polarity analysis",
		"2. Attraction type analysis",
		"3. Cross analysis (Polarity x Type)",
		"4. Text analysis",
		"5. Initial recommendations",
		"Analysis complete",
	}, titles)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sections, false))
	out := buf.String()
	assert.Contains(t, out, "1. POLARITY ANALYSIS")
	assert.Contains(t, out, "Imbalance ratio: 20.00:1")
	assert.Contains(t, out, "Polarity 5:     60 (60.00%) "+strings.Repeat("█", 30))
	assert.Contains(t, out, "✓ RECOMMENDATION: use column 'Review'")
	assert.Contains(t, out, "⚠ SEVERE imbalance")
	assert.NotContains(t, out, "\x1b[")
}

func TestThousands(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4200: "-4,200"}
	for n, want := range cases {
		assert.Equal(t, want, Thousands(n))
	}
}
