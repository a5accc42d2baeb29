package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yulin/playlens/internal/cluster"
	"github.com/yulin/playlens/internal/config"
	"github.com/yulin/playlens/internal/events"
	"github.com/yulin/playlens/internal/knowledge"
	"github.com/yulin/playlens/internal/stats"
)

// statsCmd and clusterCmd re-analyze the latest persisted run, so they work
// without the source workbooks.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Group statistics over the latest run",
	Long: "Computes per-group descriptives and Welch t-tests (by sex and by post-test\n" +
		"tercile) over the latest run in the results database, printing the report\n" +
		"as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.LatestRun(cmd.Context())
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no runs recorded yet; run `playlens run` first")
		}

		brecs, err := st.BehaviorRecords(cmd.Context(), run.ID)
		if err != nil {
			return err
		}

		rules, _, err := loadAnalysisInputs(cmd)
		if err != nil {
			return err
		}
		rep := stats.Analyze(brecs, rules)
		return printJSON(rep)
	},
}

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster students of the latest run by mastery",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.LatestRun(cmd.Context())
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no runs recorded yet; run `playlens run` first")
		}

		brecs, err := st.BehaviorRecords(cmd.Context(), run.ID)
		if err != nil {
			return err
		}
		krecs, err := st.KnowledgeRecords(cmd.Context(), run.ID)
		if err != nil {
			return err
		}

		rules, kcfg, err := loadAnalysisInputs(cmd)
		if err != nil {
			return err
		}
		rep := cluster.Analyze(krecs, brecs, kcfg, rules)
		return printJSON(rep)
	},
}

func init() {
	for _, c := range []*cobra.Command{statsCmd, clusterCmd} {
		c.Flags().StringP("config", "c", "", "Config file whose rule/scoring overrides apply (defaults otherwise)")
	}
}

// loadAnalysisInputs resolves the rule table and scoring config for
// re-analysis of a stored run. With --config, the same overrides the original
// `playlens run` used apply; without it, the built-in defaults.
func loadAnalysisInputs(cmd *cobra.Command) (*events.RuleTable, *knowledge.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		return events.DefaultRuleTable(), knowledge.DefaultConfig(), nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	rules := events.DefaultRuleTable()
	if cfg.Rules != "" {
		if rules, err = events.LoadRuleTable(cfg.Rules); err != nil {
			return nil, nil, err
		}
	}
	kcfg := knowledge.DefaultConfig()
	if cfg.Knowledge != "" {
		if kcfg, err = knowledge.LoadConfig(cfg.Knowledge); err != nil {
			return nil, nil, err
		}
	}
	return rules, kcfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
