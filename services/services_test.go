package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/models"
	"taskboard/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	store    *repositories.Store
	clock    *fakeClock
	tasks    *TaskService
	projects *ProjectService
	users    *UserService
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture() *fixture {
	store := repositories.NewMemoryStore()
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		store:    store,
		clock:    clock,
		tasks:    NewTaskService(store.Tasks, clock.Now),
		projects: NewProjectService(store.Projects, store.Tasks, clock.Now),
		users:    NewUserService(store.Users, map[string]bool{"password123": true}, clock.Now),
	}
}

func (f *fixture) project(t *testing.T) *models.Project {
	t.Helper()
	p, err := f.projects.CreateProject(context.Background(), models.NewProject{
		Title:       "Website",
		Description: "Relaunch",
		ManagerID:   primitive.NewObjectID(),
		IconName:    "Rocket",
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func (f *fixture) task(t *testing.T, projectID primitive.ObjectID, assignee *primitive.ObjectID) *models.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), models.NewTask{
		Title:       "Write copy",
		Description: "Landing page text",
		ProjectID:   projectID,
		AssigneeID:  assignee,
		IconName:    "FileText",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return task
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func ptr[T any](v T) *T { return &v }

func isKind(err, kind error) bool { return errors.Is(err, kind) }
