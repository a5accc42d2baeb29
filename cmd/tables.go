package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// behaviorCmd and knowledgeCmd run the pipeline and print a summary of one
// table without touching the results database. Useful while tuning rule or
// scoring configs.
var behaviorCmd = &cobra.Command{
	Use:   "behavior",
	Short: "Build and export the behavior table only",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, res, err := runPipeline(cmd)
		if err != nil {
			return err
		}
		if err := p.Export(res); err != nil {
			return fmt.Errorf("export results: %w", err)
		}

		fmt.Printf("Behavior table: %d students, %d classes.\n", len(res.Behavior), len(res.Profiles))
		return nil
	},
}

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Build and export the knowledge-mastery table only",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, res, err := runPipeline(cmd)
		if err != nil {
			return err
		}
		if err := p.Export(res); err != nil {
			return fmt.Errorf("export results: %w", err)
		}

		var mastery float64
		var n int
		for _, rec := range res.Knowledge {
			for _, ps := range rec.Points {
				mastery += ps.Mastery
				n++
			}
		}
		if n > 0 {
			mastery /= float64(n)
		}
		fmt.Printf("Knowledge table: %d students, mean mastery %.2f.\n", len(res.Knowledge), mastery)
		return nil
	},
}
