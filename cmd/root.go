/*
Copyright © 2023 Glossopoeia
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "saturate",
	Short: "An equality saturation database with first-class function values",
	Long: `saturate runs scenarios against an e-graph database. A scenario declares
sorts, including function sorts built with the UnstableFn presort, and table
functions, then evaluates, unions, checks and extracts terms over them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
