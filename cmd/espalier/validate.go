package main

import (
	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the signature and pipeline files",
	Long:  `Loads --signature and --pipeline and lists every problem found in them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(cmd.OutOrStdout(), opts.SignaturePath, opts.PipelinePath)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
