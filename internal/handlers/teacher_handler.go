package handlers

import (
	"net/http"

	"schoolfit/internal/service"
)

// TeacherHandler serves teacher rosters and house standings
type TeacherHandler struct {
	teacherService *service.TeacherService
	houseService   *service.HouseService
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(teacherService *service.TeacherService, houseService *service.HouseService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService, houseService: houseService}
}

// Roster lists the teacher's students
func (h *TeacherHandler) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.teacherService.Roster(currentUser(r))
	if err != nil {
		respondWithServiceError(w, "Failed to load roster", err)
		return
	}
	respondJSON(w, http.StatusOK, roster)
}

// AddStudent puts {username} on the roster
func (h *TeacherHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.teacherService.AddStudent(r.Context(), currentUser(r), r.PathValue("username")); err != nil {
		respondWithServiceError(w, "Failed to add student", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveStudent takes {username} off the roster
func (h *TeacherHandler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	if err := h.teacherService.RemoveStudent(r.Context(), currentUser(r), r.PathValue("username")); err != nil {
		respondWithServiceError(w, "Failed to remove student", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendDigest emails the roster summary to the teacher
func (h *TeacherHandler) SendDigest(w http.ResponseWriter, r *http.Request) {
	if err := h.teacherService.SendRosterDigest(r.Context(), currentUser(r)); err != nil {
		respondWithServiceError(w, "Failed to send roster digest", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Houses returns the house standings
func (h *TeacherHandler) Houses(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.houseService.Standings())
}
