/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sempr/cph-go/internal/scrape"
	"github.com/sempr/cph-go/internal/store"
	"github.com/sempr/cph-go/pkg/models"
	"github.com/spf13/cobra"
)

var fetchArgs models.FetchArgs

var errNoExamples = errors.New("no examples found on the page")

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Save the examples of a problem page as test cases",
	Long: `fetch downloads a problem page, takes every <pre> block with "Input:" and
"Output:" sections and writes them to TestCases/input_N.txt and output_N.txt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchExamples(cmd.Context(), scrape.New(fetchArgs.Timeout), args[0], &fetchArgs, cmd.OutOrStdout())
	},
}

func fetchExamples(ctx context.Context, client *scrape.Client, url string, args *models.FetchArgs, out io.Writer) error {
	root, err := filepath.Abs(args.Workspace)
	if err != nil {
		return err
	}
	cases, err := client.Fetch(ctx, url)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return errNoExamples
	}
	if err := store.Save(root, cases); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %d test case(s) to %s\n", len(cases), store.Dir(root))
	return nil
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchArgs.Workspace, "workspace", "w", ".", "workspace folder")
	fetchCmd.Flags().DurationVar(&fetchArgs.Timeout, "timeout", 15*time.Second, "HTTP timeout")
}
