// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of last30days",
	Args:  topicLikeArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("last30days %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
