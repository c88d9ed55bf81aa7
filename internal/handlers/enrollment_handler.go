package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/echo-track/echo-track-api/internal/services"
	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/echo-track/echo-track-api/pkg/httputil"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// EnrollmentHandler handles HTTP requests related to user challenges.
type EnrollmentHandler struct {
	Service *services.EnrollmentService
}

// NewEnrollmentHandler creates a new instance of EnrollmentHandler.
func NewEnrollmentHandler(service *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{Service: service}
}

// EnrollHandler handles enrolling a user into a challenge.
func (h *EnrollmentHandler) EnrollHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserEmail   string `json:"userEmail"`
		ChallengeID string `json:"challengeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid enrollment payload")
		httputil.Error(w, apperr.Wrap(apperr.KindInvalidArgument, "invalid request payload", err))
		return
	}
	defer r.Body.Close()

	enrollment, err := h.Service.Enroll(r.Context(), req.UserEmail, req.ChallengeID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to enroll user")
		httputil.Error(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"enrollmentID": enrollment.ID.Hex(),
		"userEmail":    enrollment.UserEmail,
	}).Info("User enrolled")
	httputil.Success(w, http.StatusCreated, enrollment)
}

// GetEnrollmentsHandler handles listing all enrollment records.
func (h *EnrollmentHandler) GetEnrollmentsHandler(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.Service.GetAllEnrollments(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch enrollments")
		httputil.Error(w, err)
		return
	}

	logrus.WithField("count", len(enrollments)).Info("Enrollments fetched")
	httputil.JSON(w, http.StatusOK, enrollments)
}

// GetEnrollmentHandler handles fetching a single enrollment by its ID.
func (h *EnrollmentHandler) GetEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	enrollmentID := vars["id"]
	log := logrus.WithField("enrollmentID", enrollmentID)

	enrollment, err := h.Service.GetEnrollment(r.Context(), enrollmentID)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch enrollment")
		httputil.Error(w, err)
		return
	}

	log.Info("Enrollment fetched")
	httputil.JSON(w, http.StatusOK, enrollment)
}

// IncrementProgressHandler handles bumping the progress counter of one
// enrollment, keyed by the enrollment's own ID from the URL path.
func (h *EnrollmentHandler) IncrementProgressHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	enrollmentID := vars["id"]
	log := logrus.WithField("enrollmentID", enrollmentID)

	updated, err := h.Service.IncrementProgress(r.Context(), enrollmentID)
	if err != nil {
		log.WithError(err).Warn("Failed to increment progress")
		httputil.Error(w, err)
		return
	}

	log.WithField("progress", updated.Progress).Info("Progress incremented")
	httputil.Success(w, http.StatusOK, updated)
}

// GetMyActivitiesHandler handles listing the user's enrollments joined with
// their challenge documents.
func (h *EnrollmentHandler) GetMyActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	log := logrus.WithField("email", email)

	activities, err := h.Service.GetMyActivities(r.Context(), email)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch activities")
		httputil.Error(w, err)
		return
	}

	log.WithField("count", len(activities)).Info("Activities fetched")
	httputil.JSON(w, http.StatusOK, activities)
}
