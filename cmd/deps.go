package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/kpv/internal/config"
	"github.com/abhisek/kpv/internal/curriculum"
	"github.com/abhisek/kpv/internal/logger"
	"github.com/abhisek/kpv/internal/progress"
	"github.com/abhisek/kpv/internal/store"
	"github.com/abhisek/kpv/internal/topics"
)

// deps is everything a command needs once configuration is resolved.
type deps struct {
	cfg     config.Config
	log     *logger.Logger
	adapter *progress.Adapter
	store   *topics.Store
	closers []func() error
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.log.Warn("close failed", "error", err)
		}
	}
	d.log.Sync()
}

// buildDeps resolves configuration, opens storage, loads and validates the
// curriculum and builds the topic store. Storage that cannot be opened is
// replaced by an in-memory backend with a warning.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	d := &deps{cfg: cfg, log: log}

	backend, closer, err := openBackend(ctx, cfg)
	if err != nil {
		log.Warn("progress storage unavailable, keeping progress in memory", "backend", cfg.Backend, "error", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: progress storage unavailable, changes will not be saved:", err)
		backend = progress.NewMemoryBackend()
		closer = nil
	}
	if closer != nil {
		d.closers = append(d.closers, closer)
	}
	d.adapter = progress.NewAdapter(backend, log)
	d.closers = append(d.closers, d.adapter.Close)

	file, err := curriculum.Load(cfg.CurriculumPath)
	if err != nil {
		d.Close()
		return nil, err
	}
	report := curriculum.Validate(file.Topics)
	for _, w := range report.Warnings {
		log.Warn("curriculum", "problem", w)
	}
	if err := report.Err(cfg.Strict); err != nil {
		d.Close()
		return nil, err
	}

	d.store, err = topics.NewStore(ctx, file.ToTopics(), d.adapter, log)
	if err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// openBackend opens the configured durable backend. The returned closer
// releases resources the backend does not own itself.
func openBackend(ctx context.Context, cfg config.Config) (progress.Backend, func() error, error) {
	keys := progress.NewKeyspace(cfg.Namespace)
	switch cfg.Backend {
	case config.BackendMemory:
		return progress.NewMemoryBackend(), nil, nil
	case config.BackendRedis:
		b, err := progress.NewRedisBackend(ctx, cfg.RedisURL, keys)
		if err != nil {
			return nil, nil, err
		}
		return b, nil, nil
	default:
		path, err := resolveDBPath(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return st.ProgressRepo(keys), st.Close, nil
	}
}

// warn prints a non-fatal storage warning for CLI commands.
func warn(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
	}
}

