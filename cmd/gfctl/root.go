package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/config"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/pipeline"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/logging"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/scenario"
)

// version is set at build time via -ldflags.
var version = "dev"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "gfctl",
	Short: "Graph fidelity validation for clinical guideline scenarios",
	Long: "gfctl builds four-layer knowledge graphs from clinical guideline text\n" +
		"and scores them against a scenario's expected graph-query assertions.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.toml", "config file path")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(assertCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.Version = version
}

// setup loads env, config, and builds the validator plus loader shared by
// all subcommands.
func setup() (*config.Config, *core.GraphValidator, scenario.Loader, error) {
	_ = godotenv.Load()
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	validator := core.NewGraphValidator(pipeline.FromConfig(cfg), logging.Nop())
	return cfg, validator, scenario.NewFileRepository(cfg.Scenarios.Dir), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
