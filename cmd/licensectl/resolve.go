package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

type resolution struct {
	URI        string `json:"uri"`
	ProviderID string `json:"provider_id,omitempty"`
	License    string `json:"license,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newResolveCmd(opts *options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "resolve <uri>...",
		Short: "Resolve the license of one or more URIs",
		Long: `Resolve prints one JSON object per URI, in argument order.

Examples:
  licensectl resolve https://github.com/orkg/orkg-backend
  licensectl resolve --providers static --rules rules.yaml https://orkg.org/resource/R1

  # Only the licenses
  licensectl resolve https://github.com/a/b | jq -r .license`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := opts.service()
			if err != nil {
				return err
			}

			failed := 0
			for _, uri := range args {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				info, err := service.Determine(ctx, uri)
				cancel()

				out := resolution{URI: uri, ProviderID: info.ProviderID, License: info.License}
				if err != nil {
					out.Error = err.Error()
					failed++
				}
				if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d URIs could not be resolved", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 20*time.Second, "timeout per URI")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
