package main

import (
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize TERM...",
	Short: "Rewrite terms to their normal forms",
	Long: `Normalizes each TERM with the pipeline and prints its normal forms.

Terms use prefix notation, e.g. AND(a, NEG(NEG(b))), or the JSON form
{"op": "AND", "args": [...]}.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trace, _ := cmd.Flags().GetBool("trace")
		pretty, _ := cmd.Flags().GetBool("pretty")
		asJSON, _ := cmd.Flags().GetBool("json")

		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		nopts := cli.NormalizeOptions{Format: cli.FormatText, Trace: trace}
		switch {
		case asJSON:
			nopts.Format = cli.FormatJSON
		case pretty || trace:
			nopts.Format = cli.FormatMarkdown
			if tui.IsTerminal(os.Stdout) {
				nopts.Render = tui.NewRenderer()
			}
		}
		return cli.Normalize(cmd.Context(), env, cmd.OutOrStdout(), args, nopts)
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().Bool("trace", false, "Append the explored rewrite graph (Mermaid) to the report")
	normalizeCmd.Flags().Bool("pretty", false, "Print a markdown report, styled on terminals")
	normalizeCmd.Flags().Bool("json", false, "Print one JSON object per term")
}
