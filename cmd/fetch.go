package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"news-carousel/internal/fetcher"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var fetchOutput string

// fetchCmd runs one fetch cycle and prints the normalized articles.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch articles once and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		f, err := newFetcher(cfg.NewsAPI)
		if err != nil {
			return err
		}
		payload, err := cfg.NewsAPI.Payload()
		if err != nil {
			return err
		}
		req, err := fetcher.ParseRequest(payload)
		if err != nil {
			return err
		}
		articles, err := f.Fetch(context.Background(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(fetchOutput) {
		case "yaml", "yml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(articles); err != nil {
				return err
			}
			return enc.Close()
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(articles)
		default:
			return fmt.Errorf("unknown output format %q (json or yaml)", fetchOutput)
		}
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "json", "output format: json or yaml")
	rootCmd.AddCommand(fetchCmd)
}
