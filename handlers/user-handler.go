package handlers

import (
	"net/http"

	"taskboard/middleware"
	"taskboard/models"
	"taskboard/services"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in models.NewUser
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.service.CreateUser(r.Context(), in, callerRole(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.UserPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.service.UpdateUser(r.Context(), id, patch, callerRole(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser is mounted behind the admin role check.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

// callerRole is empty when the request carried no token.
func callerRole(r *http.Request) models.Role {
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		return actor.Role
	}
	return ""
}

// Icons returns the catalog of icon names for the kind in the path.
func Icons(w http.ResponseWriter, r *http.Request) {
	kind := models.IconKind(mux.Vars(r)["kind"])
	icons := models.Icons(kind)
	if len(icons) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "unknown icon kind " + string(kind)})
		return
	}
	writeJSON(w, http.StatusOK, icons)
}
