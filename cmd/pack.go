package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/mtgcalc/internal/booster"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Open simulated Play Booster packs",
	Long: `Pack opens simulated 14-card Play Booster packs from a set and shows
each card with its price, plus the total value of every pack.

Use --seed to repeat the same packs.

Examples:
  mtgcalc pack --set-code mkm
  mtgcalc pack --set-code mkm --count 3 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPack,
}

func init() {
	packCmd.Flags().String("set-code", "", "Set code, e.g. mkm")
	packCmd.Flags().IntP("count", "n", 1, "Number of packs to open")
}

func runPack(cmd *cobra.Command, args []string) error {
	setCode, _ := cmd.Flags().GetString("set-code")
	count, _ := cmd.Flags().GetInt("count")

	if count <= 0 {
		return fmt.Errorf("--count must be positive, got %d", count)
	}

	buckets, err := loadBuckets(cmd, setCode)
	if err != nil {
		return err
	}
	sim, err := newSimulator(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := 1; i <= count; i++ {
		pack, err := sim.Open(buckets)
		if err != nil {
			return fmt.Errorf("pack %d: %w", i, err)
		}

		rows := make([][]string, 0, len(pack))
		for _, c := range pack {
			rows = append(rows, []string{rarityTitle(c.Rarity), formatPrice(c), c.Type(), c.ManaCost, c.Name})
		}

		renderTable(out, fmt.Sprintf("Pack %d of %d", i, count), []string{"Rarity", "Price", "Type", "Mana", "Name"}, rows)
		printLabel(out, "Total Value: ", formatMoney(booster.PackValue(pack)))
		if i < count {
			fmt.Fprintln(out)
		}
	}

	return nil
}
