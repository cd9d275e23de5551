package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/treeshop/catalog/internal/client"
)

const (
	apiURLEnvKey  = "CATALOG_API_URL"
	defaultAPIURL = "http://localhost:5000"
)

type globalOptions struct {
	apiURL     string
	jsonOutput bool
}

func (o *globalOptions) client() *client.Client {
	return client.NewClient(o.apiURL)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage products in the tree catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	apiURL := os.Getenv(apiURLEnvKey)
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", apiURL, "catalog backend URL (env "+apiURLEnvKey+")")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
	)
	return cmd
}
