package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of csv2posts",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("csv2posts %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
