package progress

import (
	"context"

	"github.com/abhisek/kpv/internal/logger"
)

// Adapter is the best-effort persistence layer used by the topic store.
// Backend failures never escape as fatal errors: Load degrades to an empty
// mapping and Save reports a *StorageUnavailableError the caller may show.
type Adapter struct {
	backend Backend
	log     *logger.Logger
}

// NewAdapter wraps backend. A nil log discards warnings.
func NewAdapter(backend Backend, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{backend: backend, log: log.With("component", "progress")}
}

// Load reads every previously stored value.
func (a *Adapter) Load(ctx context.Context) map[string]int {
	values, err := a.backend.LoadAll(ctx)
	if err != nil {
		a.log.Warn("progress storage unavailable, starting from defaults", "error", err)
		return map[string]int{}
	}
	return values
}

// Save writes one value, overwriting any prior value for id.
func (a *Adapter) Save(ctx context.Context, id string, progress int) error {
	if err := a.backend.Put(ctx, id, progress); err != nil {
		a.log.Warn("failed to persist progress", "topic", id, "progress", progress, "error", err)
		return &StorageUnavailableError{Op: "save", Key: id, Err: err}
	}
	return nil
}

// Close releases the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
