package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", bold("jsxform"), bold(resolvedVersion()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
