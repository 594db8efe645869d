package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/driver"
)

var exportCmd = &cobra.Command{
	Use:   "export <scenario-id>",
	Short: "Build a scenario's graph and export it to the configured store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, validator, loader, err := setup()
		if err != nil {
			return err
		}
		if cfg.Memgraph.URI == "" {
			return fmt.Errorf("no graph store configured (set [memgraph] uri or MEMGRAPH_URI)")
		}
		d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return err
		}
		defer d.Close(cmd.Context())
		if err := d.BuildIndices(cmd.Context()); err != nil {
			return err
		}

		sc, err := loader.LoadScenario(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		run := validator.Pipeline.Run(sc)
		if err := core.NewExporter(d).ExportGraph(cmd.Context(), sc.ID, run.Nodes); err != nil {
			return err
		}
		fmt.Printf("exported %d nodes for scenario %s\n", len(run.Nodes), sc.ID)
		return nil
	},
}
