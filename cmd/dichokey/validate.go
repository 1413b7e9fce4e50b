package main

import (
	"fmt"
	"os"

	"github.com/dichokey/dichokey"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model.json>",
	Short: "Check a key model for consistency",
	Long: `Loads the model and reports structural defects: dangling references,
ambiguous parents, cycles reachable from the start node.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		eng, err := dichokey.New(args[0], dichokey.WithLogger(logger))
		if err != nil {
			return err
		}

		// Breadcrumb derivation is where cycles surface; walk every node.
		failed := false
		for _, id := range eng.Index().Nodes() {
			if _, err := eng.AncestorChain(id); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				failed = true
			}
		}
		for _, w := range eng.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if failed {
			return fmt.Errorf("key is not valid")
		}

		fmt.Printf("Key is valid: %d characteristics, %d species\n",
			eng.Model().Len(), len(eng.Index().Species()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
