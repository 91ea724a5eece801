package handlers

import (
	"net/http"
	"strconv"

	"schoolfit/internal/models"
	"schoolfit/internal/service"
	"schoolfit/internal/validation"
)

// NapfaHandler serves NAPFA tests
type NapfaHandler struct {
	napfaService   *service.NapfaService
	teacherService *service.TeacherService
}

// NewNapfaHandler creates a new NAPFA handler
func NewNapfaHandler(napfaService *service.NapfaService, teacherService *service.TeacherService) *NapfaHandler {
	return &NapfaHandler{napfaService: napfaService, teacherService: teacherService}
}

// RecordSelfTest grades and stores a test entered by the student
func (h *NapfaHandler) RecordSelfTest(w http.ResponseWriter, r *http.Request) {
	var in service.NapfaInput
	if !decodeJSON(w, r, &in) {
		return
	}
	result, err := h.napfaService.RecordSelfTest(r.Context(), currentUser(r), in)
	if err != nil {
		respondWithServiceError(w, "Failed to record NAPFA test", err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// RecordStudentTest lets a teacher record a test for a student on their roster
func (h *NapfaHandler) RecordStudentTest(w http.ResponseWriter, r *http.Request) {
	student := r.PathValue("username")
	if err := h.teacherService.CheckRoster(currentUser(r), student); err != nil {
		respondWithServiceError(w, "Failed to check roster", err)
		return
	}

	var in service.NapfaInput
	if !decodeJSON(w, r, &in) {
		return
	}
	result, err := h.napfaService.RecordTest(r.Context(), student, in)
	if err != nil {
		respondWithServiceError(w, "Failed to record NAPFA test", err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// History returns the current user's tests
func (h *NapfaHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.napfaService.History(currentUser(r))
	if err != nil {
		respondWithServiceError(w, "Failed to load NAPFA history", err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// Standards returns the grade thresholds for ?age=&gender=
func (h *NapfaHandler) Standards(w http.ResponseWriter, r *http.Request) {
	age, err := strconv.Atoi(r.URL.Query().Get("age"))
	if err != nil {
		respondWithServiceError(w, "", validation.ValidationError{Field: "age", Message: "age must be a number"})
		return
	}
	standards, err := h.napfaService.Standards(age, models.Gender(r.URL.Query().Get("gender")))
	if err != nil {
		respondWithServiceError(w, "Failed to load standards", err)
		return
	}
	respondJSON(w, http.StatusOK, standards)
}
