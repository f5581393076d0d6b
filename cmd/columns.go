package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/review-profiler/internal/columns"
	"github.com/spf13/cobra"
)

var (
	colDelimiter string
	colSheet     string
)

var columnsCmd = &cobra.Command{
	Use:   "columns [file]",
	Short: "Show which columns would be used as text, title, polarity and type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := currentConfig()
		if err != nil {
			return err
		}
		c := *base
		if cmd.Flags().Changed("delimiter") {
			c.Delimiter = colDelimiter
		}
		if cmd.Flags().Changed("sheet") {
			c.SheetName = colSheet
		}
		path := c.InputPath
		if len(args) == 1 {
			path = args[0]
		}
		tbl, err := loadTable(cmd, path, &c)
		if err != nil {
			return err
		}

		sel := columns.Identify(tbl)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File: %s (%d rows)\n", tbl.Name, tbl.Len())
		for _, col := range tbl.Columns {
			fmt.Fprintf(out, "  - %s (%s, %d nulls)\n", col.Name, col.Kind, col.NullCount())
		}
		fmt.Fprintln(out)
		text := sel.Text
		if text != "" && sel.TextSource != columns.TextNone {
			text = fmt.Sprintf("%s (%s)", sel.Text, sel.TextSource)
		}
		printRole(out, "text", text)
		printRole(out, "title", sel.Title)
		printRole(out, "polarity", sel.Polarity)
		printRole(out, "type", sel.Type)
		if _, err := columns.Resolve(tbl); err != nil {
			fmt.Fprintf(out, "⚠ %v\n", err)
		}
		return nil
	},
}

func printRole(out io.Writer, role, name string) {
	if name == "" {
		name = "(not found)"
	}
	fmt.Fprintf(out, "%-9s %s\n", role+":", name)
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringVar(&colDelimiter, "delimiter", "", "field delimiter for delimited files (',' ';' 'tab' ...)")
	columnsCmd.Flags().StringVar(&colSheet, "sheet", "", "XLSX sheet name (default first sheet)")
}
