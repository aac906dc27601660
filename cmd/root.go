package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kpv",
	Short: "Track progress through a topic dependency graph",
	Long: "kpv tracks learning progress across a curriculum of topics. A topic unlocks once\n" +
		"every prerequisite has reached 75%. Progress is persisted and can be exported\n" +
		"to or imported from a JSON snapshot.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides KPV_DB env var)")
	pf.String("backend", "", "Progress storage backend: sqlite, redis or memory (overrides KPV_BACKEND)")
	pf.String("redis-url", "", "Redis URL for the redis backend (overrides KPV_REDIS_URL)")
	pf.String("namespace", "", "Key prefix isolating this progress set (overrides KPV_NAMESPACE)")
	pf.String("curriculum", "", "Path to a YAML curriculum (overrides KPV_CURRICULUM)")
	pf.Bool("strict", false, "Treat curriculum warnings as errors")
	pf.String("log-level", "", "Log level: debug, info, warn or error (overrides KPV_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(curriculumCmd)
	rootCmd.AddCommand(versionCmd)
}
