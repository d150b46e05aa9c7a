package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	catalogPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "catalog-cli",
		Short: "Maintain the frequency catalog and try recommendations against it",
		Long: `catalog-cli works on the YAML frequency catalog used by the file backend
and by local development.

Examples:
  catalog-cli validate
  catalog-cli list
  catalog-cli add --id schumann --name "Schumann Resonance" --min 7.83 --max 7.83
  catalog-cli recommend --intention "stress relief" --health-concern anxiety
  catalog-cli describe 528`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.catalogPath, "catalog", "c", "configs/catalog.yaml", "Path to the catalog file")

	cmd.AddCommand(
		newValidateCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newRecommendCmd(opts),
		newDescribeCmd(opts),
	)
	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
