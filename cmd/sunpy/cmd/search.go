package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Physolia/sunpy/internal/cmd/output"
)

var searchFlags queryFlags

// searchCmd represents the search command.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the VSO for matching records",
	Long: `Search queries the Virtual Solar Observatory with the given
attribute filters and prints the matching records, sorted by start time.

A time range is always required; the remaining filters are optional and
combine as a conjunction.`,
	Example: `  sunpy search --start 2020-01-01 --end 2020-01-02 --instrument EIT
  sunpy search --start 2020-01-01 --end 2020-01-02 --wavemin 171 --wavemax 175 -o json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		query, err := searchFlags.buildQuery()
		if err != nil {
			return err
		}
		client, err := newVSOClient(cmd.Context())
		if err != nil {
			return err
		}
		table, err := client.Search(cmd.Context(), query...)
		if err != nil {
			return err
		}
		return output.WriteTable(table, globalFlags)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addQueryFlags(searchCmd, &searchFlags)
}
