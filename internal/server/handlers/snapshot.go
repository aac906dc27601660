package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/kpv/internal/logger"
	"github.com/abhisek/kpv/internal/progress"
	"github.com/abhisek/kpv/internal/topics"
)

// MaxSnapshotBytes bounds an import request body.
const MaxSnapshotBytes = 1 << 20

// SnapshotHandler exports and imports progress snapshots.
type SnapshotHandler struct {
	store *topics.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewSnapshotHandler(store *topics.Store, log *logger.Logger) *SnapshotHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotHandler{store: store, log: log, now: time.Now}
}

type importResponse struct {
	Applied  int      `json:"applied"`
	Unlocked []string `json:"unlocked"`
	Locked   []string `json:"locked"`
	Warning  string   `json:"warning,omitempty"`
}

// GET /api/export
func (h *SnapshotHandler) Export(c *gin.Context) {
	data, err := h.store.Export()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	name := progress.ExportFilename(h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/json", data)
}

// POST /api/import
func (h *SnapshotHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxSnapshotBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, http.StatusRequestEntityTooLarge, CodeTooLarge, err)
			return
		}
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	res, err := h.store.Import(c.Request.Context(), body)
	if err != nil {
		var pe *progress.ParseError
		if errors.As(err, &pe) {
			RespondError(c, http.StatusBadRequest, CodeParseError, err)
			return
		}
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if res.Warning != nil {
		h.log.Warn("imported progress not fully persisted", "error", res.Warning)
	}

	RespondOK(c, importResponse{
		Applied:  res.Applied,
		Unlocked: nonNilStrings(res.Unlocked),
		Locked:   nonNilStrings(res.Locked),
		Warning:  warningText(res.Warning),
	})
}
