/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sempr/cph-go/internal/lang"
	"github.com/sempr/cph-go/internal/scaffold"
	"github.com/sempr/cph-go/internal/store"
	"github.com/sempr/cph-go/pkg/models"
	"github.com/spf13/cobra"
)

var scaffoldArgs models.ScaffoldArgs

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create solution.<ext> for a language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return scaffoldSolution(&scaffoldArgs, cmd.OutOrStdout())
	},
}

func scaffoldSolution(args *models.ScaffoldArgs, out io.Writer) error {
	root, err := filepath.Abs(args.Workspace)
	if err != nil {
		return err
	}
	table, err := lang.Load(root)
	if err != nil {
		return err
	}
	profile, err := table.Lookup(args.Language)
	if err != nil {
		return err
	}

	path, created, err := scaffold.Create(root, profile)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Created %s\n", path)
	} else {
		fmt.Fprintf(out, "%s already exists\n", path)
	}
	if _, err := store.List(root); err != nil {
		fmt.Fprintf(out, "No test cases yet. Add them under %s or use `cph fetch`.\n", store.Dir(root))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVarP(&scaffoldArgs.Language, "lang", "l", "", "solution language")
	newCmd.Flags().StringVarP(&scaffoldArgs.Workspace, "workspace", "w", ".", "workspace folder")
	newCmd.MarkFlagRequired("lang")
}
