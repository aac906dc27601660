package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/kpv/internal/logger"
	"github.com/abhisek/kpv/internal/topics"
)

// TopicHandler serves the topic graph and progress mutations.
type TopicHandler struct {
	store *topics.Store
	log   *logger.Logger
}

func NewTopicHandler(store *topics.Store, log *logger.Logger) *TopicHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &TopicHandler{store: store, log: log}
}

type topicListResponse struct {
	Filter topics.Filter  `json:"filter"`
	Topics []topics.Topic `json:"topics"`
	Stats  topics.Stats   `json:"stats"`
}

type topicDetailResponse struct {
	Topic         topics.Topic   `json:"topic"`
	Prerequisites []topics.Topic `json:"prerequisites"`
	Dependents    []topics.Topic `json:"dependents"`
}

type setProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

type setProgressResponse struct {
	Topic    topics.Topic `json:"topic"`
	Unlocked []string     `json:"unlocked"`
	Locked   []string     `json:"locked"`
	Warning  string       `json:"warning,omitempty"`
}

type edgesResponse struct {
	Edges []topics.Edge `json:"edges"`
}

// GET /api/topics?filter=
func (h *TopicHandler) List(c *gin.Context) {
	f, err := topics.ParseFilter(c.Query("filter"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadFilter, err)
		return
	}
	RespondOK(c, topicListResponse{
		Filter: f,
		Topics: nonNil(h.store.Filter(f)),
		Stats:  h.store.Stats(),
	})
}

// GET /api/topics/:id
func (h *TopicHandler) Get(c *gin.Context) {
	id := c.Param("id")
	t, err := h.store.Lookup(id)
	if err != nil {
		RespondError(c, http.StatusNotFound, CodeNotFound, err)
		return
	}
	RespondOK(c, topicDetailResponse{
		Topic:         t,
		Prerequisites: nonNil(h.store.Prerequisites(id)),
		Dependents:    nonNil(h.store.Dependents(id)),
	})
}

// PUT /api/topics/:id/progress
func (h *TopicHandler) SetProgress(c *gin.Context) {
	var req setProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	change, err := h.store.SetProgress(c.Request.Context(), c.Param("id"), *req.Progress)
	if err != nil {
		var nf *topics.NotFoundError
		if errors.As(err, &nf) {
			RespondError(c, http.StatusNotFound, CodeNotFound, err)
			return
		}
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if change.Warning != nil {
		h.log.Warn("progress not persisted", "topic", change.Topic.ID, "error", change.Warning)
	}

	RespondOK(c, setProgressResponse{
		Topic:    change.Topic,
		Unlocked: nonNilStrings(change.Unlocked),
		Locked:   nonNilStrings(change.Locked),
		Warning:  warningText(change.Warning),
	})
}

// GET /api/edges
func (h *TopicHandler) Edges(c *gin.Context) {
	edges := h.store.Edges()
	if edges == nil {
		edges = []topics.Edge{}
	}
	RespondOK(c, edgesResponse{Edges: edges})
}

func nonNil(ts []topics.Topic) []topics.Topic {
	if ts == nil {
		return []topics.Topic{}
	}
	return ts
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
