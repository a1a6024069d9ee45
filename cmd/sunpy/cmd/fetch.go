package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Physolia/sunpy/internal/config"
	"github.com/Physolia/sunpy/pkg/vso"
)

var (
	fetchFlags queryFlags
	fetchPath  string
)

// fetchCmd represents the fetch command.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Search the VSO and download the matching files",
	Long: `Fetch runs a search and downloads the files behind every matching
record. Files land in the directory given by --path; a {file} placeholder
in the path is replaced with each file's name.`,
	Example: `  sunpy fetch --start 2020-01-01 --end 2020-01-02 --instrument EIT --path ./data`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		query, err := fetchFlags.buildQuery()
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
		if !globalFlags.Quiet {
			fmt.Fprintf(os.Stderr, "Fetching %d records\n", table.Len())
		}

		path := fetchPath
		if path == "" {
			path = config.FetchPath()
		}
		var opts []vso.FetchOption
		if path != "" {
			opts = append(opts, vso.WithPath(path))
		}
		results, err := client.Fetch(cmd.Context(), table.Records(), opts...)
		if err != nil {
			return err
		}

		for _, file := range results.Files() {
			fmt.Println(file)
		}
		if errs := results.Errors(); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(os.Stderr, "download failed: %v\n", err)
			}
			return fmt.Errorf("%d of %d downloads failed", len(errs), results.Len())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addQueryFlags(fetchCmd, &fetchFlags)
	fetchCmd.Flags().StringVar(&fetchPath, "path", "", "Download destination pattern")
}
