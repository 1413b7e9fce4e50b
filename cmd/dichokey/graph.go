package main

import (
	"fmt"

	"github.com/dichokey/dichokey"
	"github.com/dichokey/dichokey/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <model.json>",
	Short: "Export the key graph visualization",
	Long:  `Loads the model and outputs a Mermaid diagram (graph TD) of the whole key.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		eng, err := dichokey.New(args[0], dichokey.WithLogger(logger))
		if err != nil {
			return err
		}

		speciesIDs := make(map[string]bool)
		for _, label := range eng.Index().Species() {
			speciesIDs[label] = true
		}
		m := &graph.Mermaid{SpeciesIDs: speciesIDs}
		out, err := m.Render(eng.Index().Nodes(), eng.Index().Edges(), "")
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
