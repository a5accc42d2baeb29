package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yulin/playlens/internal/dashboard"
	"github.com/yulin/playlens/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "playlens",
	Short: "Game-log analysis for the password-security study",
	Long: "PlayLens turns raw gameplay logs and questionnaires from the password-security\n" +
		"learning game into behavioral profiles, knowledge-mastery scores, and group\n" +
		"statistics. Run `playlens run` to process the inputs, then `playlens` to browse\n" +
		"the results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return dashboard.Run(cmd.Context(), st)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PLAYLENS_DB env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(behaviorCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PLAYLENS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
