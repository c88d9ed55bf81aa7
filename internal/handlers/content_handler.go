package handlers

import (
	"fmt"
	"net/http"

	"github.com/echo-track/echo-track-api/internal/services"
	"github.com/echo-track/echo-track-api/pkg/httputil"
	"github.com/sirupsen/logrus"
)

// ContentHandler serves the read-only tip and event feeds plus the liveness
// probe.
type ContentHandler struct {
	Service *services.ContentService
}

// NewContentHandler creates a new instance of ContentHandler.
func NewContentHandler(service *services.ContentService) *ContentHandler {
	return &ContentHandler{Service: service}
}

// GetTipsHandler handles listing the 5 most recent tips.
func (h *ContentHandler) GetTipsHandler(w http.ResponseWriter, r *http.Request) {
	tips, err := h.Service.GetRecentTips(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch tips")
		httputil.Error(w, err)
		return
	}

	logrus.WithField("count", len(tips)).Info("Tips fetched")
	httputil.JSON(w, http.StatusOK, tips)
}

// GetUpcomingEventsHandler handles listing up to 4 future events, soonest
// first.
func (h *ContentHandler) GetUpcomingEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.GetUpcomingEvents(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch upcoming events")
		httputil.Error(w, err)
		return
	}

	logrus.WithField("count", len(events)).Info("Upcoming events fetched")
	httputil.JSON(w, http.StatusOK, events)
}

// HealthHandler reports process liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Echo Track server is running fine!")
}
