package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dichokey/dichokey"
	"github.com/dichokey/dichokey/internal/cli"
	"github.com/dichokey/dichokey/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <model.json>",
	Short: "Generate the static site from a key model",
	Long: `Loads the key model, derives the navigation structures and writes the
whole page set to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		glossaryDir, _ := cmd.Flags().GetString("glossary")
		translations, _ := cmd.Flags().GetString("translations")
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		single, _ := cmd.Flags().GetBool("single")
		shrink, _ := cmd.Flags().GetBool("shrink-images")
		noGraphs, _ := cmd.Flags().GetBool("no-graphs")
		workers, _ := cmd.Flags().GetInt("workers")
		if workers == 0 {
			workers = cfg.Workers
		}

		opts := []dichokey.Option{dichokey.WithLogger(logger)}
		if glossaryDir != "" {
			opts = append(opts, dichokey.WithGlossary(file.NewGlossarySource(glossaryDir)))
		}
		if translations != "" {
			trans, err := file.LoadTranslations(translations)
			if err != nil {
				return err
			}
			opts = append(opts, dichokey.WithTranslator(trans))
		}

		eng, err := dichokey.New(args[0], opts...)
		if err != nil {
			return fmt.Errorf("loading key: %w", err)
		}

		report, err := eng.Generate(cmd.Context(), outDir, dichokey.GenerateOptions{
			Title:          title,
			Description:    description,
			SingleDocument: single,
			ShrinkImages:   shrink,
			NoGraphs:       noGraphs,
			Workers:        workers,
			Progress:       cli.NewProgress().Tick,
		})
		if err != nil {
			return err
		}

		for _, w := range report.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		fmt.Printf("Generated %d pages in %s (%s)\n", report.Pages, outDir, report.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("out", "o", "out", "Output directory")
	generateCmd.Flags().String("glossary", "", "Directory with glossary definition files")
	generateCmd.Flags().String("translations", "", "Label translation file (YAML or JSON)")
	generateCmd.Flags().String("title", "", "Site title")
	generateCmd.Flags().String("description", "", "Index page description (markdown)")
	generateCmd.Flags().Bool("single", false, "Emit one self-contained index.html instead of one file per page")
	generateCmd.Flags().Bool("shrink-images", false, "Downscale oversized glossary images")
	generateCmd.Flags().Bool("no-graphs", false, "Skip per-page navigation diagrams")
	generateCmd.Flags().Int("workers", 0, "Page generation parallelism (0 = number of CPUs)")
	rootCmd.AddCommand(generateCmd)
}
