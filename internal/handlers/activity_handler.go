package handlers

import (
	"net/http"

	"schoolfit/internal/models"
	"schoolfit/internal/service"
)

// recordReader reads a copy of one user record
type recordReader interface {
	Get(username string) (*models.UserRecord, error)
}

// ActivityHandler serves the activity loggers and goals
type ActivityHandler struct {
	activityService *service.ActivityService
	users           recordReader
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService, users recordReader) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, users: users}
}

type bodyMetricsRequest struct {
	HeightCm      float64 `json:"height"`
	WeightKg      float64 `json:"weight"`
	ActivityLevel string  `json:"activity_level"`
	BodyFatPct    float64 `json:"body_fat"`
	MuscleMassKg  float64 `json:"muscle_mass"`
}

type hydrationRequest struct {
	AmountMl int `json:"amount_ml"`
}

type stepsRequest struct {
	Date  string `json:"date"`
	Steps int    `json:"steps"`
}

// LogWorkout records a workout
func (h *ActivityHandler) LogWorkout(w http.ResponseWriter, r *http.Request) {
	var in service.WorkoutInput
	if !decodeJSON(w, r, &in) {
		return
	}
	exercise, award, err := h.activityService.LogWorkout(r.Context(), currentUser(r), in)
	if err != nil {
		respondWithServiceError(w, "Failed to log workout", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"exercise": exercise, "award": award})
}

// ListWorkouts returns the workout history
func (h *ActivityHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, record.Exercises)
}

// LogSleep records a night of sleep
func (h *ActivityHandler) LogSleep(w http.ResponseWriter, r *http.Request) {
	var in service.SleepInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, award, err := h.activityService.LogSleep(r.Context(), currentUser(r), in)
	if err != nil {
		respondWithServiceError(w, "Failed to log sleep", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"sleep": entry, "award": award})
}

// LogBMI records a BMI measurement
func (h *ActivityHandler) LogBMI(w http.ResponseWriter, r *http.Request) {
	var in bodyMetricsRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, award, err := h.activityService.LogBMI(r.Context(), currentUser(r), in.HeightCm, in.WeightKg)
	if err != nil {
		respondWithServiceError(w, "Failed to log BMI", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"bmi": entry, "award": award})
}

// LogBMR records a BMR estimate
func (h *ActivityHandler) LogBMR(w http.ResponseWriter, r *http.Request) {
	var in bodyMetricsRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := h.activityService.LogBMR(r.Context(), currentUser(r), in.HeightCm, in.WeightKg, in.ActivityLevel)
	if err != nil {
		respondWithServiceError(w, "Failed to log BMR", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// LogBodyComposition records a body composition measurement
func (h *ActivityHandler) LogBodyComposition(w http.ResponseWriter, r *http.Request) {
	var in bodyMetricsRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := h.activityService.LogBodyComposition(r.Context(), currentUser(r), in.WeightKg, in.BodyFatPct, in.MuscleMassKg)
	if err != nil {
		respondWithServiceError(w, "Failed to log body composition", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// LogHydration records a drink
func (h *ActivityHandler) LogHydration(w http.ResponseWriter, r *http.Request) {
	var in hydrationRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := h.activityService.LogHydration(r.Context(), currentUser(r), in.AmountMl)
	if err != nil {
		respondWithServiceError(w, "Failed to log hydration", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// LogSteps records a daily step count
func (h *ActivityHandler) LogSteps(w http.ResponseWriter, r *http.Request) {
	var in stepsRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := h.activityService.LogSteps(r.Context(), currentUser(r), in.Date, in.Steps)
	if err != nil {
		respondWithServiceError(w, "Failed to log steps", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// History returns every history sequence of the current user
func (h *ActivityHandler) History(w http.ResponseWriter, r *http.Request) {
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bmi_history":           record.BMIHistory,
		"sleep_history":         record.SleepHistory,
		"exercises":             record.Exercises,
		"steps_data":            record.StepsData,
		"bmr_history":           record.BMRHistory,
		"body_comp_history":     record.BodyCompHistory,
		"hydration_log":         record.HydrationLog,
		"workout_verifications": record.WorkoutVerifications,
	})
}

// AddGoal creates a goal
func (h *ActivityHandler) AddGoal(w http.ResponseWriter, r *http.Request) {
	var in service.GoalInput
	if !decodeJSON(w, r, &in) {
		return
	}
	goal, err := h.activityService.AddGoal(r.Context(), currentUser(r), in)
	if err != nil {
		respondWithServiceError(w, "Failed to add goal", err)
		return
	}
	respondJSON(w, http.StatusCreated, goal)
}

// AddSmartGoal creates a SMART goal
func (h *ActivityHandler) AddSmartGoal(w http.ResponseWriter, r *http.Request) {
	var in service.SmartGoalInput
	if !decodeJSON(w, r, &in) {
		return
	}
	goal, err := h.activityService.AddSmartGoal(r.Context(), currentUser(r), in)
	if err != nil {
		respondWithServiceError(w, "Failed to add goal", err)
		return
	}
	respondJSON(w, http.StatusCreated, goal)
}

// ListGoals returns goals and SMART goals
func (h *ActivityHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	record, ok := h.record(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"goals":       record.Goals,
		"smart_goals": record.SmartGoals,
	})
}

// CompleteGoal marks a goal done
func (h *ActivityHandler) CompleteGoal(w http.ResponseWriter, r *http.Request) {
	award, err := h.activityService.CompleteGoal(r.Context(), currentUser(r), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, "Failed to complete goal", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"award": award})
}

// record loads the current user's record or writes the error reply
func (h *ActivityHandler) record(w http.ResponseWriter, r *http.Request) (*models.UserRecord, bool) {
	record, err := h.users.Get(currentUser(r))
	if err != nil {
		respondWithServiceError(w, "Failed to load user", err)
		return nil, false
	}
	return record, true
}
