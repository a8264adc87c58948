package handlers

import (
	"encoding/json"
	"net/http"

	"taskboard/errs"
	"taskboard/middleware"
	"taskboard/models"
	"taskboard/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var filter models.TaskFilter
	var err error
	if filter.ProjectID, err = queryID(r, "projectId"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.AssigneeID, err = queryID(r, "assigneeId"); err != nil {
		writeError(w, r, err)
		return
	}
	filter.Status = models.TaskStatus(r.URL.Query().Get("status"))

	tasks, err := h.service.ListTasks(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.NewTask
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.service.CreateTask(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "task")
	if err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "task")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.TaskPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.service.UpdateTask(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "task")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "task")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.CommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.service.AddComment(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// AssignTask expects {"userId": "<id>"} or {"userId": null}.
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "task")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body map[string]json.RawMessage
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	raw, ok := body["userId"]
	if !ok {
		writeError(w, r, errs.Validationf("userId is required (null to unassign)"))
		return
	}
	var userID *primitive.ObjectID
	if err := json.Unmarshal(raw, &userID); err != nil {
		writeError(w, r, errs.Validationf("invalid userId: %v", err))
		return
	}
	if userID != nil && userID.IsZero() {
		userID = nil
	}

	task, err := h.service.AssignTask(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ChangeStatus acts as the authenticated caller; only the assignee succeeds.
func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, errs.Unauthenticatedf("authentication required"))
		return
	}
	id, err := pathID(r, "id", "task")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.StatusChange
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.service.ChangeStatus(r.Context(), id, actor.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// AvailableActions lists what the assignee may do next with the task.
func (h *TaskHandler) AvailableActions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "task")
	if err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  task.Status,
		"actions": models.AvailableActions(task.Status),
	})
}
