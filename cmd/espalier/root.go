package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var opts cli.Options

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier is a phased term rewriting engine",
	Long: `Espalier rewrites terms to normal forms with builtin equational rules
(associativity, commutativity, idempotence, neutral elements, distributivity)
sequenced into phases. Algebras and pipelines are described in YAML.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       strings.TrimSpace(espalier.Version),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.Error(os.Stderr, "Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.SignaturePath, "signature", "", "Signature YAML file (default: embedded boolean algebra)")
	flags.StringVar(&opts.PipelinePath, "pipeline", "", "Pipeline YAML file (default: embedded simplify/canonicalize)")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.LogFormat, "log-format", "text", "Log format: text or json")
	flags.StringVar(&opts.Store, "store", cli.StoreNone, "Normal form cache: none, memory, file or redis")
	flags.StringVar(&opts.CacheDir, "cache-dir", "", "Directory of the file cache (default .espalier/cache)")
	flags.StringVar(&opts.RedisURL, "redis-url", "redis://localhost:6379/0", "Redis URL for the redis cache")
	flags.DurationVar(&opts.CacheMaxAge, "cache-max-age", 0, "Expire cached normal forms after this duration (0: never)")
}

// newEnv builds the engine for a command.
func newEnv(cmd *cobra.Command) (*cli.Env, error) {
	return cli.NewEnv(cmd.Context(), opts, opts.Logger())
}
