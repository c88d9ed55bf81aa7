package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/echo-track/echo-track-api/internal/models"
	"github.com/echo-track/echo-track-api/internal/services"
	"github.com/echo-track/echo-track-api/pkg/apperr"
	"github.com/echo-track/echo-track-api/pkg/httputil"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ChallengeHandler handles HTTP requests related to challenges.
type ChallengeHandler struct {
	Service *services.ChallengeService
}

// NewChallengeHandler creates a new instance of ChallengeHandler.
func NewChallengeHandler(service *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{Service: service}
}

// GetChallengesHandler handles listing challenges with an optional category
// filter.
func (h *ChallengeHandler) GetChallengesHandler(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	log := logrus.WithField("category", category)

	challenges, err := h.Service.GetChallenges(r.Context(), category)
	if err != nil {
		log.WithError(err).Error("Failed to fetch challenges")
		httputil.Error(w, err)
		return
	}

	log.WithField("count", len(challenges)).Info("Challenges fetched")
	httputil.JSON(w, http.StatusOK, challenges)
}

// GetChallengeHandler handles fetching a single challenge by its ID.
func (h *ChallengeHandler) GetChallengeHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	challengeID := vars["id"]
	log := logrus.WithField("challengeID", challengeID)

	challenge, err := h.Service.GetChallenge(r.Context(), challengeID)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch challenge")
		httputil.Error(w, err)
		return
	}

	log.Info("Challenge fetched")
	httputil.JSON(w, http.StatusOK, challenge)
}

// GetActiveChallengesHandler handles listing challenges whose window contains
// now, soonest ending first.
func (h *ChallengeHandler) GetActiveChallengesHandler(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.Service.GetActiveChallenges(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch active challenges")
		httputil.Error(w, err)
		return
	}

	logrus.WithField("count", len(challenges)).Info("Active challenges fetched")
	httputil.JSON(w, http.StatusOK, challenges)
}

// CreateChallengeHandler handles the creation of a new challenge.
func (h *ChallengeHandler) CreateChallengeHandler(w http.ResponseWriter, r *http.Request) {
	var challenge models.Challenge
	if err := json.NewDecoder(r.Body).Decode(&challenge); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during challenge creation")
		httputil.Error(w, apperr.Wrap(apperr.KindInvalidArgument, "invalid request payload", err))
		return
	}
	defer r.Body.Close()

	created, err := h.Service.CreateChallenge(r.Context(), &challenge)
	if err != nil {
		logrus.WithError(err).Error("Failed to create challenge")
		httputil.Error(w, err)
		return
	}

	logrus.WithField("challengeID", created.ID.Hex()).Info("Challenge created")
	httputil.Success(w, http.StatusCreated, created)
}

// UpdateChallengeHandler handles replacing the supplied fields of a
// challenge. Date changes recompute the derived duration.
func (h *ChallengeHandler) UpdateChallengeHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	challengeID := vars["id"]
	log := logrus.WithField("challengeID", challengeID)

	var update models.ChallengeUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.WithError(err).Warn("Invalid update payload")
		httputil.Error(w, apperr.Wrap(apperr.KindInvalidArgument, "invalid request payload", err))
		return
	}
	defer r.Body.Close()

	updated, err := h.Service.UpdateChallenge(r.Context(), challengeID, &update)
	if err != nil {
		log.WithError(err).Warn("Failed to update challenge")
		httputil.Error(w, err)
		return
	}

	log.Info("Challenge updated")
	httputil.Success(w, http.StatusOK, updated)
}

// IncrementParticipantsHandler handles bumping the participants counter of a
// challenge by 1.
func (h *ChallengeHandler) IncrementParticipantsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	challengeID := vars["id"]
	log := logrus.WithField("challengeID", challengeID)

	updated, err := h.Service.IncrementParticipants(r.Context(), challengeID)
	if err != nil {
		log.WithError(err).Warn("Failed to increment participants")
		httputil.Error(w, err)
		return
	}

	log.WithField("participants", updated.Participants).Info("Participants incremented")
	httputil.Success(w, http.StatusOK, updated)
}

// DeleteChallengeHandler handles deleting a challenge by its ID.
func (h *ChallengeHandler) DeleteChallengeHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	challengeID := vars["id"]
	log := logrus.WithField("challengeID", challengeID)

	if err := h.Service.DeleteChallenge(r.Context(), challengeID); err != nil {
		log.WithError(err).Warn("Failed to delete challenge")
		httputil.Error(w, err)
		return
	}

	log.Info("Challenge deleted")
	httputil.Success(w, http.StatusOK, nil)
}

// GetMyChallengesHandler handles listing challenges created by the given
// email.
func (h *ChallengeHandler) GetMyChallengesHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	log := logrus.WithField("email", email)

	challenges, err := h.Service.GetChallengesByCreator(r.Context(), email)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch challenges by creator")
		httputil.Error(w, err)
		return
	}

	log.WithField("count", len(challenges)).Info("Creator challenges fetched")
	httputil.JSON(w, http.StatusOK, challenges)
}
