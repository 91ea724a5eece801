package handlers

import (
	"net/http"

	"schoolfit/internal/service"
)

// SocialHandler serves friends and groups
type SocialHandler struct {
	socialService *service.SocialService
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(socialService *service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

type groupRequest struct {
	Name string `json:"name"`
}

type inviteRequest struct {
	Username string `json:"username"`
}

// Friends lists friends and pending requests
func (h *SocialHandler) Friends(w http.ResponseWriter, r *http.Request) {
	username := currentUser(r)
	friends, err := h.socialService.Friends(username)
	if err != nil {
		respondWithServiceError(w, "Failed to load friends", err)
		return
	}
	pending, err := h.socialService.PendingRequests(username)
	if err != nil {
		respondWithServiceError(w, "Failed to load friend requests", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"friends": friends, "requests": pending})
}

// SendRequest sends a friend request to {username}
func (h *SocialHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.socialService.SendFriendRequest(r.Context(), currentUser(r), r.PathValue("username")); err != nil {
		respondWithServiceError(w, "Failed to send friend request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcceptRequest accepts the request from {username}
func (h *SocialHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.socialService.AcceptFriendRequest(r.Context(), currentUser(r), r.PathValue("username")); err != nil {
		respondWithServiceError(w, "Failed to accept friend request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeclineRequest declines the request from {username}
func (h *SocialHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.socialService.DeclineFriendRequest(r.Context(), currentUser(r), r.PathValue("username")); err != nil {
		respondWithServiceError(w, "Failed to decline friend request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveFriend ends the friendship with {username}
func (h *SocialHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	if err := h.socialService.RemoveFriend(r.Context(), currentUser(r), r.PathValue("username")); err != nil {
		respondWithServiceError(w, "Failed to remove friend", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateGroup creates a group
func (h *SocialHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var in groupRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.socialService.CreateGroup(r.Context(), currentUser(r), in.Name); err != nil {
		respondWithServiceError(w, "Failed to create group", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Members lists the members of {group}
func (h *SocialHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.socialService.GroupMembers(r.PathValue("group"))
	if err != nil {
		respondWithServiceError(w, "Failed to load group", err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

// Invite invites a user to {group}
func (h *SocialHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var in inviteRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.socialService.InviteToGroup(r.Context(), currentUser(r), r.PathValue("group"), in.Username); err != nil {
		respondWithServiceError(w, "Failed to invite to group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AcceptInvite joins {group}
func (h *SocialHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	if err := h.socialService.AcceptGroupInvite(r.Context(), currentUser(r), r.PathValue("group")); err != nil {
		respondWithServiceError(w, "Failed to join group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeclineInvite drops the invitation to {group}
func (h *SocialHandler) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	if err := h.socialService.DeclineGroupInvite(r.Context(), currentUser(r), r.PathValue("group")); err != nil {
		respondWithServiceError(w, "Failed to decline invitation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Leave leaves {group}
func (h *SocialHandler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.socialService.LeaveGroup(r.Context(), currentUser(r), r.PathValue("group")); err != nil {
		respondWithServiceError(w, "Failed to leave group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
