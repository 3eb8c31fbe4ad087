package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check a running server's health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult

			if err := NewClient(serverURL).Get(cmd.Context(), "/healthz", &result); err != nil {
				return err
			}

			NewOutput(opts.output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", getEnvOrDefault("STUDENTDESK_SERVER", "http://localhost:8080"), "Server URL (env: STUDENTDESK_SERVER)")

	return cmd
}
