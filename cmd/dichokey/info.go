package main

import (
	"fmt"
	"strings"

	"github.com/dichokey/dichokey"
	"github.com/dichokey/dichokey/internal/presentation/tui"
	"github.com/dichokey/dichokey/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <model.json>",
	Short: "Summarize a key model",
	Long:  `Loads the model and prints a rendered overview: size, start node, species list.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		glossaryDir, _ := cmd.Flags().GetString("glossary")
		opts := []dichokey.Option{dichokey.WithLogger(logger)}
		if glossaryDir != "" {
			opts = append(opts, dichokey.WithGlossary(file.NewGlossarySource(glossaryDir)))
		}

		eng, err := dichokey.New(args[0], opts...)
		if err != nil {
			return err
		}

		tui.PrintBanner(dichokey.Version)

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n", eng.Name)
		fmt.Fprintf(&b, "- **Start node**: %s\n", eng.Model().Start)
		fmt.Fprintf(&b, "- **Characteristics**: %d\n", eng.Model().Len())
		fmt.Fprintf(&b, "- **Species**: %d\n", len(eng.Index().Species()))
		fmt.Fprintf(&b, "- **Glossary terms**: %d\n", len(eng.AllTerms()))
		fmt.Fprintf(&b, "- **Warnings**: %d\n", len(eng.Warnings()))
		fmt.Fprintf(&b, "\n## Species\n\n")
		for _, label := range eng.ClosureOf(eng.Model().Start) {
			fmt.Fprintf(&b, "- %s\n", label)
		}

		render := tui.NewRenderer()
		out, err := render(b.String())
		if err != nil {
			fmt.Print(b.String())
			return nil
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	infoCmd.Flags().String("glossary", "", "Directory with glossary definition files")
	rootCmd.AddCommand(infoCmd)
}
