package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/report"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate <scenario-id>",
	Short: "Validate one scenario's graph fidelity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, validator, loader, err := setup()
		if err != nil {
			return err
		}
		sc, err := loader.LoadScenario(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		result := validator.ValidateGraphFidelity(sc)

		if validateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report.Flatten(result))
		}
		fmt.Print(report.Summary(result))
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "emit the flattened CI record as JSON")
}
