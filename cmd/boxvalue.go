package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/mtgcalc/internal/booster"
	"github.com/arcanaland/mtgcalc/internal/card"
)

var boxValueCmd = &cobra.Command{
	Use:   "box-value",
	Short: "Estimate the card value of a booster box",
	Long: `Box-value opens simulated booster boxes and reports their average value.
Cards priced below booster.min_card_value count as bulk and add nothing.

Examples:
  mtgcalc box-value --set-code mkm
  mtgcalc box-value --set-code mkm --count 100 --packs-per-box 30`,
	Args: cobra.NoArgs,
	RunE: runBoxValue,
}

func init() {
	boxValueCmd.Flags().String("set-code", "", "Set code, e.g. mkm")
	boxValueCmd.Flags().IntP("count", "n", 1, "Number of boxes to open and average over")
	boxValueCmd.Flags().Int("packs-per-box", 0, "Packs in a box (default booster.packs_per_box)")
}

func runBoxValue(cmd *cobra.Command, args []string) error {
	setCode, _ := cmd.Flags().GetString("set-code")
	boxes, _ := cmd.Flags().GetInt("count")
	packsPerBox, _ := cmd.Flags().GetInt("packs-per-box")
	if packsPerBox == 0 {
		packsPerBox = cfg.Booster.PacksPerBox
	}

	buckets, err := loadBuckets(cmd, setCode)
	if err != nil {
		return err
	}
	sim, err := newSimulator(cmd)
	if err != nil {
		return err
	}

	stats, err := booster.EstimateBoxValue(sim, buckets, booster.BoxOptions{
		Boxes:        boxes,
		PacksPerBox:  packsPerBox,
		MinCardValue: cfg.Booster.MinCardValue,
	})
	if err != nil {
		return err
	}
	logger.Debug("Opened boxes",
		zap.Int("boxes", stats.Boxes),
		zap.Int("packs", stats.Packs),
		zap.Float64("total", stats.TotalValue))

	out := cmd.OutOrStdout()
	printLabel(out, "Box Value: ", formatMoney(stats.AverageValue))
	if stats.Boxes > 1 {
		printLabel(out, "Boxes Opened: ", formatCount(stats.Boxes))
	}
	fmt.Fprintln(out)

	var rows [][]string
	for _, r := range card.Rarities() {
		n, ok := stats.Distribution[r]
		if !ok {
			continue
		}
		rows = append(rows, []string{rarityTitle(r), formatCount(n)})
	}
	renderTable(out, "Rarity Distribution", []string{"Rarity", "Cards"}, rows)
	return nil
}
