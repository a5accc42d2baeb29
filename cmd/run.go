package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yulin/playlens/internal/config"
	"github.com/yulin/playlens/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis pipeline",
	Long: "Reads the questionnaire and game-log workbooks named in the config, builds\n" +
		"the behavior and knowledge-mastery tables, runs group statistics and\n" +
		"clustering, exports everything to the output directory, and records the run\n" +
		"in the results database.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, res, err := runPipeline(cmd)
		if err != nil {
			return err
		}

		if err := p.Export(res); err != nil {
			return fmt.Errorf("export results: %w", err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		run, err := p.Persist(cmd.Context(), st, res)
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d students (run %s).\n", run.Students, run.ID)
		if res.UnmappedDates > 0 {
			fmt.Printf("Warning: %d game log rows had unmapped session dates.\n", res.UnmappedDates)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, behaviorCmd, knowledgeCmd} {
		c.Flags().StringP("config", "c", "playlens.yaml", "Path to pipeline config file")
		c.Flags().StringP("out", "o", "", "Output directory (overrides the config's out_dir)")
	}
}

// runPipeline loads the config named by --config and executes the analysis.
func runPipeline(cmd *cobra.Command) (*pipeline.Pipeline, *pipeline.Result, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.OutDir = out
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	res, err := p.Run()
	if err != nil {
		return nil, nil, err
	}
	return p, res, nil
}
