package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"schoolfit/internal/napfa"
	"schoolfit/internal/repository"
	"schoolfit/internal/security"
	"schoolfit/internal/service"
	"schoolfit/internal/validation"
)

// errorResponse is the body of every error reply
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// decodeJSON reads a JSON request body of at most maxBodyBytes
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return false
	}
	return true
}

// clientErrors maps service errors that are safe to show to the user onto a status
var clientErrors = []struct {
	err    error
	status int
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{security.ErrInvalidSession, http.StatusUnauthorized},
	{security.ErrSessionRevoked, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotTeacher, http.StatusForbidden},
	{service.ErrNotOnRoster, http.StatusNotFound},
	{service.ErrGoalNotFound, http.StatusNotFound},
	{service.ErrGroupNotFound, http.StatusNotFound},
	{service.ErrNoFriendRequest, http.StatusNotFound},
	{service.ErrNoGroupInvite, http.StatusNotFound},
	{service.ErrDuplicateEmail, http.StatusConflict},
	{service.ErrAlreadyFriends, http.StatusConflict},
	{service.ErrRequestPending, http.StatusConflict},
	{service.ErrGroupExists, http.StatusConflict},
	{service.ErrAlreadyInGroup, http.StatusConflict},
	{service.ErrInvitePending, http.StatusConflict},
	{service.ErrAlreadyOnRoster, http.StatusConflict},
	{service.ErrGoalAlreadyComplete, http.StatusConflict},
	{service.ErrSelfFriend, http.StatusBadRequest},
	{service.ErrNotFriends, http.StatusBadRequest},
	{service.ErrNotGroupMember, http.StatusBadRequest},
	{service.ErrGroupNameTooLong, http.StatusBadRequest},
	{service.ErrNotStudent, http.StatusBadRequest},
	{napfa.ErrInvalidGender, http.StatusBadRequest},
}

// respondWithServiceError turns an error from a service call into a reply.
// Unknown errors are logged and reported as a generic server error.
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	var verr validation.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
		return
	}
	var ageErr *napfa.InvalidAgeError
	if errors.As(err, &ageErr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: ageErr.Error(), Field: "age"})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, ErrUserNotFound, "", nil)
		return
	}
	if errors.Is(err, repository.ErrConflict) {
		respondWithError(w, http.StatusConflict, ErrConcurrentUpdate, logMsg, err)
		return
	}
	for _, known := range clientErrors {
		if errors.Is(err, known.err) {
			respondWithError(w, known.status, known.err.Error(), "", nil)
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
}
