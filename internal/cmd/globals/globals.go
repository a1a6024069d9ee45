// Package globals provides the flag set shared by every CLI command.
package globals

import "github.com/spf13/cobra"

// Flags holds the global flags common to all commands.
type Flags struct {
	Output  string
	Quiet   bool
	Verbose bool
}

// AddFlags registers the global flags on the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", "",
		"Output format: table, json, yaml")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"Minimal output")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"Verbose output")

	return flags
}
