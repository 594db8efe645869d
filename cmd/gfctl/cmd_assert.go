package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

var assertCmd = &cobra.Command{
	Use:   "assert <query> <expect>",
	Short: "Check an assertion for well-formedness",
	Long: "Parses a graph-query assertion without running a scenario, e.g.\n" +
		"  gfctl assert 'select(CONCEPT).has(type, medication).count()' '>=1'",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, validator, _, err := setup()
		if err != nil {
			return err
		}
		a := model.Assertion{ID: "cli", Query: args[0], Expect: args[1]}
		if validator.ValidateGremlinAssertion(a) {
			fmt.Println("ok")
			return nil
		}
		return fmt.Errorf("assertion is malformed")
	},
}
