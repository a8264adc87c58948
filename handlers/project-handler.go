package handlers

import (
	"net/http"

	"taskboard/errs"
	"taskboard/models"
	"taskboard/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var filter models.ProjectFilter
	var err error
	if filter.ManagerID, err = queryID(r, "managerId"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.Member, err = queryID(r, "member"); err != nil {
		writeError(w, r, err)
		return
	}
	filter.Status = models.ProjectStatus(r.URL.Query().Get("status"))

	projects, err := h.service.ListProjects(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in models.NewProject
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	project, err := h.service.CreateProject(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	project, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.ProjectPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	project, err := h.service.UpdateProject(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *ProjectHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status models.ProjectStatus `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	project, err := h.service.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		UserID primitive.ObjectID `json:"userId"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.UserID.IsZero() {
		writeError(w, r, errs.Validationf("userId is required"))
		return
	}
	project, err := h.service.AddMember(r.Context(), id, body.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId", "user")
	if err != nil {
		writeError(w, r, err)
		return
	}
	project, err := h.service.RemoveMember(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.CommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	project, err := h.service.AddComment(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Board(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		writeError(w, r, err)
		return
	}
	board, err := h.service.Board(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}
