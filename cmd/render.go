package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	colorize "github.com/fatih/color"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arcanaland/mtgcalc/internal/card"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// First column cyan, second magenta, the rest green
	columnColors = []lipgloss.Color{"6", "5", "2"}

	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// renderTable writes a titled table, shrinking it to the terminal when needed
func renderTable(w io.Writer, title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle.Foreground(columnColor(col))
		})

	rendered := t.Render()
	if width := terminalWidth(w); width > 0 && lipgloss.Width(rendered) > width {
		rendered = t.Width(width).Render()
	}

	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, rendered)
}

func columnColor(col int) lipgloss.Color {
	if col < len(columnColors) {
		return columnColors[col]
	}
	return columnColors[len(columnColors)-1]
}

// terminalWidth returns the width of w when it is a terminal, 0 otherwise
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

// rarityTitle formats a rarity for display, e.g. "Mythic"
func rarityTitle(r card.Rarity) string {
	return titleCaser.String(string(r))
}

// formatPrice formats a card price, or "-" when the card has none
func formatPrice(c card.Card) string {
	if c.Price == nil {
		return "-"
	}
	return printer.Sprintf("%.2f", *c.Price)
}

// formatMoney formats a dollar amount with thousands separators
func formatMoney(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// formatCount formats an integer with thousands separators
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// printLabel writes a colored label followed by a value
func printLabel(w io.Writer, label, value string) {
	fmt.Fprintln(w, colorize.CyanString(label)+colorize.HiWhiteString(value))
}
