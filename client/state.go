package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// State is everything the client keeps between runs. It is loaded once at
// startup with LoadState and written back with Save after every mutation.
type State struct {
	path string

	Token       string           `json:"token,omitempty"`
	CurrentUser *models.User     `json:"currentUser,omitempty"`
	Users       []models.User    `json:"users"`
	Projects    []models.Project `json:"projects"`
	Tasks       []models.Task    `json:"tasks"`
	SyncedAt    time.Time        `json:"syncedAt"`
}

// LoadState reads path. A missing file yields an empty state bound to path.
func LoadState(path string) (*State, error) {
	s := &State{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the state through a temporary file so a crash never leaves a
// truncated file behind.
func (s *State) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Login stores the session and saves.
func (s *State) Login(token string, user models.User) error {
	s.Token = token
	s.CurrentUser = &user
	return s.Save()
}

// Logout forgets the session and every cached entity.
func (s *State) Logout() error {
	*s = State{path: s.path}
	return s.Save()
}

// Refresh replaces the cached users, projects and tasks with the server's.
func (s *State) Refresh(ctx context.Context, api *APIClient) error {
	users, err := api.ListUsers(ctx)
	if err != nil {
		return err
	}
	projects, err := api.ListProjects(ctx)
	if err != nil {
		return err
	}
	tasks, err := api.ListTasks(ctx, url.Values{})
	if err != nil {
		return err
	}
	s.Users, s.Projects, s.Tasks = users, projects, tasks
	s.SyncedAt = time.Now().UTC()
	return s.Save()
}

// PutTask replaces the cached copy of task, or appends it, and saves.
func (s *State) PutTask(task models.Task) error {
	for i := range s.Tasks {
		if s.Tasks[i].ID == task.ID {
			s.Tasks[i] = task
			return s.Save()
		}
	}
	s.Tasks = append(s.Tasks, task)
	return s.Save()
}

func (s *State) Task(id primitive.ObjectID) (*models.Task, bool) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i], true
		}
	}
	return nil, false
}

// UserNames maps user ids to display names for rendering.
func (s *State) UserNames() map[primitive.ObjectID]string {
	names := make(map[primitive.ObjectID]string, len(s.Users))
	for _, u := range s.Users {
		names[u.ID] = u.Name
	}
	return names
}

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrNotAssignee = errors.New("only the task's assignee can change its status")
)

// CheckMove refuses a status change locally when the cached copy of the task
// shows someone else as assignee. Tasks missing from the cache are left to
// the server.
func (s *State) CheckMove(taskID string) error {
	if s.Token == "" || s.CurrentUser == nil {
		return ErrNotLoggedIn
	}
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return fmt.Errorf("invalid task id %q", taskID)
	}
	if task, ok := s.Task(id); ok && !s.CanChangeStatus(task) {
		return ErrNotAssignee
	}
	return nil
}

// CanChangeStatus mirrors the server rule: only the assignee moves a task.
func (s *State) CanChangeStatus(task *models.Task) bool {
	return s.CurrentUser != nil && task.IsAssignee(s.CurrentUser.ID)
}
