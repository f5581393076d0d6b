package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/KaramelBytes/review-profiler/internal/analysis"
	"github.com/KaramelBytes/review-profiler/internal/columns"
	cfgpkg "github.com/KaramelBytes/review-profiler/internal/config"
	"github.com/KaramelBytes/review-profiler/internal/dataset"
	"github.com/KaramelBytes/review-profiler/internal/summary"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	profOutput        string
	profDelimiter     string
	profSheet         string
	profRareThreshold float64
	profExampleChars  int
	profTextCols      []string
	profPreferText    []string
)

var profileCmd = &cobra.Command{
	Use:   "profile [file]",
	Short: "Report label distributions, imbalance and text lengths of a review dataset",
	Long: `Profile a labeled review dataset and write a summary file.

Without a file argument the configured input_path is used
(default data/Rest-Mex_2025_train.csv).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := currentConfig()
		if err != nil {
			return err
		}
		c := *base
		f := cmd.Flags()
		if f.Changed("output") {
			c.SummaryPath = profOutput
		}
		if f.Changed("delimiter") {
			c.Delimiter = profDelimiter
		}
		if f.Changed("sheet") {
			c.SheetName = profSheet
		}
		if f.Changed("rare-threshold") {
			if profRareThreshold <= 0 {
				return fmt.Errorf("--rare-threshold must be positive, got %v", profRareThreshold)
			}
			c.RareThresholdPct = profRareThreshold
		}
		if f.Changed("example-chars") {
			c.ExampleMaxChars = profExampleChars
		}
		if f.Changed("text-col") {
			c.TextColumns = profTextCols
		}
		if f.Changed("prefer-text") {
			c.PreferredTextColumns = profPreferText
		}

		path := c.InputPath
		if len(args) == 1 {
			path = args[0]
		}
		tbl, err := loadTable(cmd, path, &c)
		if err != nil {
			return err
		}
		sel, err := columns.Resolve(tbl)
		if err != nil {
			return err
		}
		rep, err := analysis.Analyze(tbl, sel, analysisOptions(&c))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := analysis.Render(out, rep.Sections(), useColor()); err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		outPath := c.SummaryPath
		if outPath == "" {
			outPath = summary.DefaultPath
		}
		if err := summary.Write(outPath, summary.FromReport(rep, path)); err != nil {
			// the report above is complete; only the file is missing
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %v\n", err)
			return nil
		}
		fmt.Fprintf(out, "\n📁 Summary saved to: %s\n", outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutput, "output", "o", "", "summary file path; .yaml/.yml writes YAML, anything else JSON (default analysis_info.json)")
	profileCmd.Flags().StringVar(&profDelimiter, "delimiter", "", "field delimiter for delimited files (',' ';' 'tab' ...)")
	profileCmd.Flags().StringVar(&profSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	profileCmd.Flags().Float64Var(&profRareThreshold, "rare-threshold", analysis.DefaultRareThreshold, "percent of all rows below which a label pair is rare")
	profileCmd.Flags().IntVar(&profExampleChars, "example-chars", 200, "truncate example texts to this many characters (0 disables)")
	profileCmd.Flags().StringSliceVar(&profTextCols, "text-col", nil, "text columns to profile (repeatable; default Title,Review)")
	profileCmd.Flags().StringSliceVar(&profPreferText, "prefer-text", nil, "text column preference for the summary (repeatable; default Review,Title)")
}

// loadTable reads the dataset behind a spinner unless --quiet is set.
func loadTable(cmd *cobra.Command, path string, c *cfgpkg.Global) (*dataset.Table, error) {
	delim, err := c.Delim()
	if err != nil {
		return nil, err
	}
	opt := dataset.Options{Delimiter: delim, SheetName: c.SheetName}
	if !quiet {
		s := newSpinner(cmd.ErrOrStderr(), fmt.Sprintf(" Loading %s", path))
		s.Start()
		defer s.Stop()
	}
	return dataset.Load(path, opt)
}

func newSpinner(w io.Writer, suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = suffix
	return s
}

func analysisOptions(c *cfgpkg.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	if len(c.TextColumns) > 0 {
		opt.TextColumns = c.TextColumns
	}
	if len(c.PreferredTextColumns) > 0 {
		opt.PreferredText = c.PreferredTextColumns
	}
	if c.RareThresholdPct > 0 {
		opt.RareThreshold = c.RareThresholdPct
	}
	opt.ExampleMaxChars = c.ExampleMaxChars
	return opt
}
