/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/sempr/cph-go/internal/daemon"
	"github.com/sempr/cph-go/pkg/models"
	"github.com/spf13/cobra"
)

var daemonArgs models.DaemonArgs

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve run requests from a Redis or MySQL queue",
	Long: `daemon reads <home>/etc/cph.conf, detaches from the terminal and runs
queued requests against their workspaces, publishing one report per request.

With --debug it stays in the foreground and logs to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return daemon.Main(&daemonArgs)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().StringVar(&daemonArgs.Home, "home", "/home/cph", "daemon home with etc/ and log/")
	daemonCmd.Flags().BoolVar(&daemonArgs.Debug, "debug", false, "stay in foreground and log to stdout")
	daemonCmd.Flags().BoolVar(&daemonArgs.Once, "once", false, "exit when the queue is empty")
}
