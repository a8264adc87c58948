package handlers

import (
	"net/http"

	"taskboard/middleware"
	"taskboard/models"
	"taskboard/services"

	"github.com/gorilla/mux"
)

// Services is everything the HTTP surface dispatches to.
type Services struct {
	Tasks    *services.TaskService
	Projects *services.ProjectService
	Users    *services.UserService
	Auth     *services.AuthService
}

type RouterOptions struct {
	JWTSecret  []byte
	CORSOrigin string
}

func NewRouter(svc Services, opts RouterOptions) http.Handler {
	taskHandler := NewTaskHandler(svc.Tasks)
	projectHandler := NewProjectHandler(svc.Projects)
	userHandler := NewUserHandler(svc.Users)
	authHandler := NewAuthHandler(svc.Auth)

	auth := middleware.JWTAuth(opts.JWTSecret)
	maybeAuth := middleware.OptionalJWTAuth(opts.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/tasks", taskHandler.ListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/comment", taskHandler.AddComment).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/assign", taskHandler.AssignTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id}/actions", taskHandler.AvailableActions).Methods(http.MethodGet)
	api.Handle("/tasks/{id}/status", auth(http.HandlerFunc(taskHandler.ChangeStatus))).Methods(http.MethodPatch)

	api.HandleFunc("/projects", projectHandler.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/status", projectHandler.SetStatus).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{id}/members", projectHandler.AddMember).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/members/{userId}", projectHandler.RemoveMember).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/comment", projectHandler.AddComment).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/board", projectHandler.Board).Methods(http.MethodGet)

	api.HandleFunc("/users", userHandler.ListUsers).Methods(http.MethodGet)
	api.Handle("/users", maybeAuth(http.HandlerFunc(userHandler.CreateUser))).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", userHandler.GetUser).Methods(http.MethodGet)
	api.Handle("/users/{id}", maybeAuth(http.HandlerFunc(userHandler.UpdateUser))).Methods(http.MethodPut)
	api.Handle("/users/{id}", auth(adminOnly(http.HandlerFunc(userHandler.DeleteUser)))).Methods(http.MethodDelete)

	api.HandleFunc("/icons/{kind}", Icons).Methods(http.MethodGet)

	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.Handle("/auth/me", auth(http.HandlerFunc(authHandler.Me))).Methods(http.MethodGet)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	return middleware.EnableCORS(opts.CORSOrigin)(r)
}
