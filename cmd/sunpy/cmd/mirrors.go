package cmd

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Physolia/sunpy/internal/cmd/output"
	"github.com/Physolia/sunpy/internal/config"
	"github.com/Physolia/sunpy/pkg/vso"
)

// mirrorsCmd represents the mirrors command.
var mirrorsCmd = &cobra.Command{
	Use:   "mirrors",
	Short: "Probe the configured VSO mirrors",
	Long:  `Mirrors probes every configured VSO endpoint and reports which are live.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		timeout := config.Timeout()
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		client := &http.Client{Timeout: timeout}

		var statuses []output.MirrorStatus
		for _, mirror := range config.Mirrors() {
			status := "offline"
			if vso.CheckConnection(cmd.Context(), client, mirror.URL) {
				status = "live"
			}
			statuses = append(statuses, output.MirrorStatus{
				URL:    mirror.URL,
				Port:   mirror.Port,
				Status: status,
			})
		}
		return output.FormatMirrors(statuses, globalFlags)
	},
}

func init() {
	rootCmd.AddCommand(mirrorsCmd)
}
