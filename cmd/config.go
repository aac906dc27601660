package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/kpv/internal/config"
	"github.com/abhisek/kpv/internal/store"
)

// loadConfig reads KPV_* variables and applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()

	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("db", &cfg.DBPath)
	str("backend", &cfg.Backend)
	str("redis-url", &cfg.RedisURL)
	str("namespace", &cfg.Namespace)
	str("curriculum", &cfg.CurriculumPath)
	str("log-level", &cfg.Log.Level)
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	// serve only.
	str("host", &cfg.Server.Host)
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}

	return cfg, cfg.Validate()
}

// resolveDBPath returns the database path using --db / KPV_DB, then the
// default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
