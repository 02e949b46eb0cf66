package main

import (
	"time"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print random terms over the signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		depth, _ := cmd.Flags().GetInt("depth")
		seed, _ := cmd.Flags().GetUint64("seed")
		vars, _ := cmd.Flags().GetStringSlice("vars")
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		return cli.Generate(env, cmd.OutOrStdout(), count, depth, seed, vars)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntP("count", "n", 10, "Number of terms")
	generateCmd.Flags().Int("depth", 4, "Depth after which terms are closed with a leaf")
	generateCmd.Flags().Uint64("seed", 0, "Random seed (default: time based)")
	generateCmd.Flags().StringSlice("vars", []string{"a", "b", "c"}, "Variable names to draw")
}
