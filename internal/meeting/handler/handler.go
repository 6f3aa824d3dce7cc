package handler

import (
	"errors"
	"net/http"

	"github.com/crmhub/crmhub/backend/go-services/internal/meeting"
	"github.com/crmhub/crmhub/backend/go-services/internal/meeting/service"
	"github.com/crmhub/crmhub/backend/go-services/pkg/logger"
	"github.com/crmhub/crmhub/backend/go-services/pkg/metrics"
	"github.com/gin-gonic/gin"
)

const noMeeting = "No meeting found."

var failures = map[string]string{
	"add":        "Failed to create meeting",
	"view":       "Failed to load meeting",
	"edit":       "Failed to update meeting",
	"delete":     "Failed to delete meeting",
	"deleteMany": "Error deleting meetings",
}

// RegisterMeetingRoutes mounts the meeting endpoints under /api/meeting.
func RegisterMeetingRoutes(r gin.IRouter, svc service.Service) {
	h := &meetingHandler{svc: svc}
	g := r.Group("/api/meeting")
	g.POST("/add", h.add)
	g.GET("/", h.index)
	g.GET("/view/:id", h.view)
	g.PUT("/edit/:id", h.edit)
	g.DELETE("/delete/:id", h.deleteOne)
	g.POST("/deleteMany", h.deleteMany)
}

type meetingHandler struct {
	svc service.Service
}

func (h *meetingHandler) add(c *gin.Context) {
	var in meeting.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		observe("add", "invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "add", err, noMeeting)
		return
	}
	observe("add", "ok")
	c.JSON(http.StatusOK, m)
}

func (h *meetingHandler) index(c *gin.Context) {
	query := map[string]string{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}
	list, err := h.svc.List(c.Request.Context(), query)
	if err != nil {
		if service.IsValidation(err) {
			logger.Debugf("meeting index rejected: %v", err)
			observe("index", "invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		observe("index", "error")
		logger.Errorf("list meetings: %v", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	observe("index", "ok")
	c.JSON(http.StatusOK, list)
}

func (h *meetingHandler) view(c *gin.Context) {
	d, err := h.svc.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "view", err, noMeeting)
		return
	}
	observe("view", "ok")
	c.JSON(http.StatusOK, d)
}

func (h *meetingHandler) edit(c *gin.Context) {
	var in meeting.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		observe("edit", "invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.Edit(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, "edit", err, noMeeting)
		return
	}
	observe("edit", "ok")
	c.JSON(http.StatusOK, m)
}

func (h *meetingHandler) deleteOne(c *gin.Context) {
	res, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "delete", err, noMeeting)
		return
	}
	observe("delete", "ok")
	c.JSON(http.StatusOK, gin.H{"message": "Meeting deleted successfully", "result": res})
}

func (h *meetingHandler) deleteMany(c *gin.Context) {
	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		observe("deleteMany", "invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.DeleteMany(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, "deleteMany", err, "No meetings found to delete")
		return
	}
	observe("deleteMany", "ok")
	c.JSON(http.StatusOK, gin.H{"message": "Meetings removed successfully", "result": res})
}

// fail maps a service error onto the response shape shared by all routes
// except index.
func (h *meetingHandler) fail(c *gin.Context, op string, err error, notFound string) {
	switch {
	case service.IsValidation(err):
		logger.Debugf("meeting %s rejected: %v", op, err)
		observe(op, "invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		observe(op, "not_found")
		c.JSON(http.StatusNotFound, gin.H{"message": notFound})
	default:
		observe(op, "error")
		logger.Errorf("meeting %s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failures[op], "details": err.Error()})
	}
}

func observe(op, outcome string) {
	metrics.MeetingOperations.WithLabelValues(op, outcome).Inc()
}
