package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/report"
)

var batchWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch <domain>",
	Short: "Validate every scenario of a domain, one worker per scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, validator, loader, err := setup()
		if err != nil {
			return err
		}
		workers := batchWorkers
		if workers == 0 {
			workers = cfg.Concurrency.BatchValidate
		}

		outcomes, err := validator.ValidateDomain(cmd.Context(), loader, args[0], workers)
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			fmt.Printf("no scenarios in domain %q\n", args[0])
			return nil
		}
		for _, o := range outcomes {
			if o.Err != nil {
				fmt.Printf("scenario %s: FAILED: %v\n", o.ScenarioID, o.Err)
				continue
			}
			fmt.Print(report.Summary(o.Result))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "worker count (default from config)")
}
