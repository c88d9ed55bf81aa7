package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/echo-track/echo-track-api/internal/services"
	"github.com/echo-track/echo-track-api/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

func decodeErrorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Kind
}

func newChallengeRouter() *mux.Router {
	handler := NewChallengeHandler(services.NewChallengeService(nil))
	router := mux.NewRouter()
	router.HandleFunc("/challenge/{id}", handler.GetChallengeHandler).Methods("GET")
	router.HandleFunc("/challenges", handler.CreateChallengeHandler).Methods("POST")
	router.HandleFunc("/challenges/{id}", handler.UpdateChallengeHandler).Methods("PUT")
	router.HandleFunc("/challenges/{id}", handler.IncrementParticipantsHandler).Methods("PATCH")
	router.HandleFunc("/challenges/{id}", handler.DeleteChallengeHandler).Methods("DELETE")
	router.HandleFunc("/my-challenges", handler.GetMyChallengesHandler).Methods("GET")
	return router
}

func TestGetChallengeHandlerMalformedID(t *testing.T) {
	router := newChallengeRouter()

	req := httptest.NewRequest(http.MethodGet, "/challenge/not-a-hex-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decodeErrorKind(t, rec))
}

func TestCreateChallengeHandlerInvalidPayload(t *testing.T) {
	router := newChallengeRouter()

	req := httptest.NewRequest(http.MethodPost, "/challenges", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decodeErrorKind(t, rec))
}

func TestCreateChallengeHandlerMissingTitle(t *testing.T) {
	router := newChallengeRouter()

	body := `{"createdBy": "a@x.com", "startDate": "2024-01-01T00:00:00Z", "endDate": "2024-01-11T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/challenges", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decodeErrorKind(t, rec))
}

func TestChallengeMutationHandlersMalformedID(t *testing.T) {
	router := newChallengeRouter()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPut, "/challenges/bad-id", `{"title": "renamed"}`},
		{http.MethodPatch, "/challenges/bad-id", ""},
		{http.MethodDelete, "/challenges/bad-id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_argument", decodeErrorKind(t, rec))
		})
	}
}

func TestGetMyChallengesHandlerRequiresEmail(t *testing.T) {
	router := newChallengeRouter()

	req := httptest.NewRequest(http.MethodGet, "/my-challenges", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decodeErrorKind(t, rec))
}
