package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const ruleWidth = 80

// Render writes sections as console text. Styling is applied only when
// useColor is set.
func Render(w io.Writer, sections []Section, useColor bool) error {
	title := color.New(color.Bold, color.FgCyan)
	head := color.New(color.Bold)
	good := color.New(color.FgGreen)
	bad := color.New(color.FgYellow)
	bar := color.New(color.FgBlue)
	for _, c := range []*color.Color{title, head, good, bad, bar} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	rule := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("─", ruleWidth)
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n%s\n%s\n", rule, title.Sprint(strings.ToUpper(s.Title)), rule)
		for _, l := range s.Lines {
			switch l.Level {
			case LevelHeading:
				fmt.Fprintf(&b, "\n%s\n%s\n", head.Sprint(l.Text), thin)
			case LevelOK:
				fmt.Fprintf(&b, "  %s\n", good.Sprint("✓ "+l.Text))
			case LevelWarn:
				fmt.Fprintf(&b, "  %s\n", bad.Sprint("⚠ "+l.Text))
			case LevelBullet:
				fmt.Fprintf(&b, "  • %s\n", l.Text)
			case LevelBar:
				fmt.Fprintf(&b, "  %s %s\n", l.Text, bar.Sprint(l.Bar))
			default:
				fmt.Fprintf(&b, "  %s\n", l.Text)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
