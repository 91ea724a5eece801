package handlers

import (
	"net/http"

	"schoolfit/internal/metrics"
)

// Router bundles every handler the API serves
type Router struct {
	Middleware   *Middleware
	Auth         *AuthHandler
	Activity     *ActivityHandler
	Napfa        *NapfaHandler
	Social       *SocialHandler
	Teacher      *TeacherHandler
	Verification *VerificationHandler
	Startup      *StartupStatus
	Metrics      *metrics.Metrics
}

// Handler builds the mux and wraps it with request logging
func (rt *Router) Handler() http.Handler {
	mw := rt.Middleware
	mux := http.NewServeMux()

	// Probes and metrics
	mux.HandleFunc("GET /healthz", Health)
	mux.HandleFunc("GET /readyz", rt.Startup.ShowStartupStatus)
	mux.Handle("GET /metrics", rt.Metrics.Handler())

	// Public routes
	mux.HandleFunc("POST /api/register", mw.RateLimit(rt.Auth.Register))
	mux.HandleFunc("POST /api/login", mw.RateLimit(rt.Auth.Login))
	mux.HandleFunc("GET /auth/google/start", rt.Auth.StartOAuth)
	mux.HandleFunc("GET /auth/google/callback", rt.Auth.OAuthCallback)
	mux.HandleFunc("GET /api/napfa/standards", rt.Napfa.Standards)

	// Account
	mux.HandleFunc("POST /api/logout", mw.Protected(rt.Auth.Logout))
	mux.HandleFunc("GET /api/csrf", mw.RequireAuth(rt.Auth.CSRFToken))
	mux.HandleFunc("GET /api/me", mw.RequireAuth(rt.Auth.Me))
	mux.HandleFunc("PUT /api/me", mw.Protected(rt.Auth.UpdateProfile))
	mux.HandleFunc("POST /api/me/password", mw.Protected(rt.Auth.ChangePassword))

	// Activity loggers
	mux.HandleFunc("GET /api/workouts", mw.RequireAuth(rt.Activity.ListWorkouts))
	mux.HandleFunc("POST /api/workouts", mw.Protected(rt.Activity.LogWorkout))
	mux.HandleFunc("POST /api/workouts/verify", mw.Protected(rt.Verification.Verify))
	mux.HandleFunc("POST /api/sleep", mw.Protected(rt.Activity.LogSleep))
	mux.HandleFunc("POST /api/bmi", mw.Protected(rt.Activity.LogBMI))
	mux.HandleFunc("POST /api/bmr", mw.Protected(rt.Activity.LogBMR))
	mux.HandleFunc("POST /api/body-composition", mw.Protected(rt.Activity.LogBodyComposition))
	mux.HandleFunc("POST /api/hydration", mw.Protected(rt.Activity.LogHydration))
	mux.HandleFunc("POST /api/steps", mw.Protected(rt.Activity.LogSteps))
	mux.HandleFunc("GET /api/history", mw.RequireAuth(rt.Activity.History))

	// Goals
	mux.HandleFunc("GET /api/goals", mw.RequireAuth(rt.Activity.ListGoals))
	mux.HandleFunc("POST /api/goals", mw.Protected(rt.Activity.AddGoal))
	mux.HandleFunc("POST /api/goals/smart", mw.Protected(rt.Activity.AddSmartGoal))
	mux.HandleFunc("POST /api/goals/{id}/complete", mw.Protected(rt.Activity.CompleteGoal))

	// NAPFA
	mux.HandleFunc("GET /api/napfa", mw.RequireAuth(rt.Napfa.History))
	mux.HandleFunc("POST /api/napfa", mw.Protected(rt.Napfa.RecordSelfTest))

	// Social
	mux.HandleFunc("GET /api/friends", mw.RequireAuth(rt.Social.Friends))
	mux.HandleFunc("POST /api/friends/{username}/request", mw.Protected(rt.Social.SendRequest))
	mux.HandleFunc("POST /api/friends/{username}/accept", mw.Protected(rt.Social.AcceptRequest))
	mux.HandleFunc("POST /api/friends/{username}/decline", mw.Protected(rt.Social.DeclineRequest))
	mux.HandleFunc("DELETE /api/friends/{username}", mw.Protected(rt.Social.RemoveFriend))
	mux.HandleFunc("POST /api/groups", mw.Protected(rt.Social.CreateGroup))
	mux.HandleFunc("GET /api/groups/{group}", mw.RequireAuth(rt.Social.Members))
	mux.HandleFunc("POST /api/groups/{group}/invite", mw.Protected(rt.Social.Invite))
	mux.HandleFunc("POST /api/groups/{group}/accept", mw.Protected(rt.Social.AcceptInvite))
	mux.HandleFunc("POST /api/groups/{group}/decline", mw.Protected(rt.Social.DeclineInvite))
	mux.HandleFunc("POST /api/groups/{group}/leave", mw.Protected(rt.Social.Leave))

	// Houses
	mux.HandleFunc("GET /api/houses", mw.RequireAuth(rt.Teacher.Houses))

	// Teacher routes
	mux.HandleFunc("GET /api/roster", mw.RequireTeacher(rt.Teacher.Roster))
	mux.HandleFunc("POST /api/roster/digest", mw.RequireTeacher(mw.CSRFProtect(rt.Teacher.SendDigest)))
	mux.HandleFunc("PUT /api/roster/{username}", mw.RequireTeacher(mw.CSRFProtect(rt.Teacher.AddStudent)))
	mux.HandleFunc("DELETE /api/roster/{username}", mw.RequireTeacher(mw.CSRFProtect(rt.Teacher.RemoveStudent)))
	mux.HandleFunc("POST /api/roster/{username}/napfa", mw.RequireTeacher(mw.CSRFProtect(rt.Napfa.RecordStudentTest)))

	return Logging(rt.Metrics, mux)
}
