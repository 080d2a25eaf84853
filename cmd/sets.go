package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List card sets",
	Long: `Sets lists the sets known to Scryfall, newest first.
Only expansions are shown unless --type or --all is given.

Examples:
  mtgcalc sets
  mtgcalc sets --type core
  mtgcalc sets --all`,
	Args: cobra.NoArgs,
	RunE: runSets,
}

func init() {
	setsCmd.Flags().String("type", "expansion", "Only list sets of this type")
	setsCmd.Flags().Bool("all", false, "List sets of every type")
}

func runSets(cmd *cobra.Command, args []string) error {
	setType, _ := cmd.Flags().GetString("type")
	all, _ := cmd.Flags().GetBool("all")

	client, err := newClient()
	if err != nil {
		return err
	}
	sets, err := client.Sets(commandContext(cmd))
	if err != nil {
		return err
	}

	var rows [][]string
	for _, s := range sets {
		if !all && s.SetType != setType {
			continue
		}
		rows = append(rows, []string{
			s.ReleasedAt,
			s.Code,
			strconv.Itoa(s.CardCount),
			s.Block,
			s.Name,
			s.SearchURI,
		})
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "No sets of type %q\n", setType)
		return nil
	}

	renderTable(out, "Sets", []string{"Released", "Code", "Cards", "Block", "Name", "Search"}, rows)
	return nil
}
