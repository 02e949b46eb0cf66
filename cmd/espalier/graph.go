package main

import (
	"github.com/aretw0/espalier/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [TERM]",
	Short: "Export a Mermaid drawing",
	Long: `Outputs a Mermaid diagram (graph TD).

Without flags it draws the phase graph, highlighting the phases a TERM
visits when one is given. --term draws the tree of TERM and --process the
rewrite graph explored while normalizing it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := cli.GraphPhases
		if t, _ := cmd.Flags().GetBool("term"); t {
			kind = cli.GraphTerm
		}
		if p, _ := cmd.Flags().GetBool("process"); p {
			kind = cli.GraphProcess
		}
		text := ""
		if len(args) > 0 {
			text = args[0]
		}

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		return cli.Graph(cmd.Context(), env, cmd.OutOrStdout(), kind, text)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("term", false, "Draw the term tree")
	graphCmd.Flags().Bool("process", false, "Draw the explored rewrite graph")
	graphCmd.MarkFlagsMutuallyExclusive("term", "process")
}
