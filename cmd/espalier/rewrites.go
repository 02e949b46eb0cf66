package main

import (
	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var rewritesCmd = &cobra.Command{
	Use:   "rewrites TERM",
	Short: "List the single-step rewrites of a term",
	Long:  `Prints every RULE@POSITION -> RESULT the rules of one phase allow on TERM.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phase, _ := cmd.Flags().GetInt("phase")

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		return cli.Rewrites(env, cmd.OutOrStdout(), args[0], phase)
	},
}

func init() {
	rootCmd.AddCommand(rewritesCmd)
	rewritesCmd.Flags().Int("phase", 0, "Phase index (0 is the entry phase)")
}
