// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/csv2posts/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that a posts directory matches its front matter",
	Long: `Verify reads every .markdown file in the posts directory and checks that
it has front matter with layout, title, permalink and published_at, and that
its file name is the one import would derive from them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("output-dir")
		if !cmd.Flags().Changed("output-dir") && viper.IsSet("output_dir") {
			dir = viper.GetString("output_dir")
		}
		cmd.SilenceUsage = true

		report, err := verify.Dir(afero.NewOsFs(), dir)
		if err != nil {
			return err
		}
		for _, p := range report.Problems {
			fmt.Fprintln(os.Stdout, p)
		}
		fmt.Fprintf(os.Stdout, "Checked %d posts, %d problems\n", report.Checked, len(report.Problems))
		if !report.OK() {
			return fmt.Errorf("%d problem(s) in %s", len(report.Problems), dir)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().String("output-dir", "_posts", "posts directory to check")

	rootCmd.AddCommand(verifyCmd)
}
