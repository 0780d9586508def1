package main

import (
	"fmt"

	"github.com/posterman/orderbot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of orderbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "orderbot version %s\n", orderbot.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
