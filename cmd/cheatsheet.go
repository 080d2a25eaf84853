package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/mtgcalc/internal/cardset"
	"github.com/arcanaland/mtgcalc/internal/review"
	"github.com/arcanaland/mtgcalc/internal/sheet"
)

var cheatsheetCmd = &cobra.Command{
	Use:   "cheatsheet",
	Short: "Build a rating cheat sheet from a set review",
	Long: `Cheatsheet reads a set review (.csv or .txt), matches every reviewed card
against the set's cards on Scryfall and writes a CSV cheat sheet grouped by color.

Misspelled names are matched to the closest card name when the edit distance
is within review.fuzzy_threshold. A name equally close to two cards is an error.

Examples:
  mtgcalc cheatsheet --set-review review.txt --set-code mkm
  mtgcalc cheatsheet --set-review review.csv --set-code otj --spg-code spg --output otj.csv`,
	Args: cobra.NoArgs,
	RunE: runCheatsheet,
}

func init() {
	cheatsheetCmd.Flags().String("set-review", "", "Review file (.csv or .txt)")
	cheatsheetCmd.Flags().String("set-code", "", "Set code, e.g. mkm")
	cheatsheetCmd.Flags().String("spg-code", "", "Special guests set code to include")
	cheatsheetCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	cheatsheetCmd.Flags().Bool("include-colorless", false, "Add a Colorless section for cards with no colored mana")
}

func runCheatsheet(cmd *cobra.Command, args []string) error {
	reviewPath, _ := cmd.Flags().GetString("set-review")
	setCode, _ := cmd.Flags().GetString("set-code")
	spgCode, _ := cmd.Flags().GetString("spg-code")
	outputPath, _ := cmd.Flags().GetString("output")
	includeColorless, _ := cmd.Flags().GetBool("include-colorless")

	if reviewPath == "" {
		return fmt.Errorf("--set-review is required")
	}
	if setCode == "" {
		return fmt.Errorf("--set-code is required")
	}
	if _, err := os.Stat(reviewPath); os.IsNotExist(err) {
		return fmt.Errorf("review file not found: %s", reviewPath)
	}

	entries, err := review.ParseFile(reviewPath)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	cards, err := client.SearchSetCards(commandContext(cmd), setCode, spgCode)
	if err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "Reviewed in set %d\n", len(entries))
	fmt.Fprintf(status, "Cards in set %d\n", len(cards))

	index := cardset.NewIndex(cards)
	report := review.NewReconciler(cfg.Review.FuzzyThreshold, logger.Named("review")).Reconcile(entries, index)
	printReconcileSummary(status, report)

	if err := report.Err(); err != nil {
		return err
	}

	grouping := sheet.Group(index.Cards())
	if n := len(grouping.Colorless); n > 0 && !includeColorless {
		logger.Warn("Colorless cards left out of the cheat sheet, use --include-colorless to keep them",
			zap.Int("count", n))
	}

	return writeOutput(cmd, outputPath, func(w io.Writer) error {
		return sheet.WriteCSV(w, grouping, includeColorless)
	})
}

func printReconcileSummary(w io.Writer, report review.Report) {
	fuzzy := 0
	for _, m := range report.Found {
		if m.Fuzzy() {
			fuzzy++
		}
	}
	fmt.Fprintf(w, "found: %d (fuzzy %d) not_found: %d\n", len(report.Found), fuzzy, len(report.NotFound))

	names := make([]string, 0, len(report.NotFound))
	for _, e := range report.NotFound {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  not found: %s\n", name)
	}
}

// writeOutput runs write against stdout for "-", otherwise against a new file at path
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing output file: %w", err)
	}

	logger.Info("Wrote cheat sheet", zap.String("path", path))
	return nil
}
