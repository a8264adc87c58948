package services

import (
	"context"
	"testing"

	"taskboard/errs"
	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	manager, member := primitive.NewObjectID(), primitive.NewObjectID()

	p, err := f.projects.CreateProject(ctx, models.NewProject{
		Title:       "Mobile",
		Description: "App",
		ManagerID:   manager,
		Members:     []primitive.ObjectID{member, member},
		IconName:    "smartphone",
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Status != models.ProjectActive || p.Deadline != nil {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if len(p.Members) != 1 || p.IconName != "Smartphone" {
		t.Fatalf("members %v icon %q", p.Members, p.IconName)
	}

	bad := []models.NewProject{
		{Description: "d", ManagerID: manager, IconName: "Rocket"},
		{Title: "t", Description: "d", IconName: "Rocket"},
		{Title: "t", Description: "d", ManagerID: manager, IconName: "Wrench"},
		{Title: "t", Description: "d", ManagerID: manager, IconName: "Rocket", Status: "archived"},
	}
	for i, in := range bad {
		_, err := f.projects.CreateProject(ctx, in)
		if !isKind(err, errs.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestProjectMembershipIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.project(t)
	u := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if _, err := f.projects.AddMember(ctx, p.ID, u); err != nil {
			t.Fatalf("AddMember: %v", err)
		}
	}
	got, _ := f.projects.GetProject(ctx, p.ID)
	if len(got.Members) != 1 || got.Members[0] != u {
		t.Fatalf("expected exactly one member, got %v", got.Members)
	}

	mine, err := f.projects.ListProjects(ctx, models.ProjectFilter{Member: &u})
	if err != nil || len(mine) != 1 {
		t.Fatalf("member filter: %v %v", mine, err)
	}

	for i := 0; i < 2; i++ {
		got, err = f.projects.RemoveMember(ctx, p.ID, u)
		if err != nil {
			t.Fatalf("RemoveMember: %v", err)
		}
	}
	if len(got.Members) != 0 {
		t.Fatalf("expected no members, got %v", got.Members)
	}

	_, err = f.projects.AddMember(ctx, primitive.NewObjectID(), u)
	wantKind(t, err, errs.ErrNotFound)
}

func TestProjectStatusAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.project(t)

	// Any status may follow any other.
	for _, s := range []models.ProjectStatus{models.ProjectCompleted, models.ProjectActive, models.ProjectOnHold, models.ProjectCompleted} {
		got, err := f.projects.SetStatus(ctx, p.ID, s)
		if err != nil || got.Status != s {
			t.Fatalf("SetStatus(%s): %v %v", s, got, err)
		}
	}
	_, err := f.projects.SetStatus(ctx, p.ID, "archived")
	wantKind(t, err, errs.ErrValidation)

	members := []primitive.ObjectID{primitive.NewObjectID()}
	got, err := f.projects.UpdateProject(ctx, p.ID, models.ProjectPatch{
		Title:   ptr("Website v2"),
		Members: &members,
		Status:  ptr(models.ProjectActive),
	})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if got.Title != "Website v2" || len(got.Members) != 1 || got.Status != models.ProjectActive || got.Description != p.Description {
		t.Fatalf("unexpected merge: %+v", got)
	}

	_, err = f.projects.UpdateProject(ctx, p.ID, models.ProjectPatch{IconName: ptr("NotAnIcon")})
	wantKind(t, err, errs.ErrValidation)
	after, _ := f.projects.GetProject(ctx, p.ID)
	if after.IconName != "Rocket" {
		t.Fatalf("failed update must not change the project, icon is %q", after.IconName)
	}
}

func TestProjectComments(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.project(t)

	_, err := f.projects.AddComment(ctx, p.ID, models.CommentRequest{Content: "", AuthorID: primitive.NewObjectID().Hex()})
	wantKind(t, err, errs.ErrValidation)
	got, _ := f.projects.GetProject(ctx, p.ID)
	if len(got.Comments) != 0 {
		t.Fatalf("comment list changed on failure: %v", got.Comments)
	}

	got, err = f.projects.AddComment(ctx, p.ID, models.CommentRequest{Content: "kickoff monday", AuthorID: p.ManagerID.Hex()})
	if err != nil || len(got.Comments) != 1 {
		t.Fatalf("AddComment: %v %v", got, err)
	}
}

func TestDeleteProjectKeepsTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.project(t)
	f.task(t, p.ID, nil)
	f.task(t, p.ID, nil)

	if err := f.projects.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	_, err := f.projects.GetProject(ctx, p.ID)
	wantKind(t, err, errs.ErrNotFound)

	orphans, err := f.tasks.ListTasks(ctx, models.TaskFilter{ProjectID: &p.ID})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(orphans) != 2 {
		t.Fatalf("expected tasks to survive project deletion, got %d", len(orphans))
	}
}

func TestProjectBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.project(t)
	u := primitive.NewObjectID()
	a := f.task(t, p.ID, &u)
	f.task(t, p.ID, &u)
	f.task(t, f.project(t).ID, &u)
	if _, err := f.tasks.ChangeStatus(ctx, a.ID, u, models.StatusChange{Action: models.ActionStart}); err != nil {
		t.Fatalf("start: %v", err)
	}

	board, err := f.projects.Board(ctx, p.ID)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	counts := map[models.TaskStatus]int{}
	for _, c := range board.Columns {
		counts[c.Status] = len(c.Tasks)
	}
	if counts[models.TaskTodo] != 1 || counts[models.TaskInProgress] != 1 || len(board.Columns) != 5 {
		t.Fatalf("unexpected board: %v", counts)
	}

	_, err = f.projects.Board(ctx, primitive.NewObjectID())
	wantKind(t, err, errs.ErrNotFound)
}

// The assignee drives the task; the project manager cannot.
func TestManagerAndAssigneeScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u1, u2 := primitive.NewObjectID(), primitive.NewObjectID()

	p, err := f.projects.CreateProject(ctx, models.NewProject{
		Title: "P", Description: "scenario", ManagerID: u1, IconName: "Target",
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	task, err := f.tasks.CreateTask(ctx, models.NewTask{
		Title: "T", Description: "scenario", ProjectID: p.ID, AssigneeID: &u2,
		Status: models.TaskTodo, IconName: "CheckSquare",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	started, err := f.tasks.ChangeStatus(ctx, task.ID, u2, models.StatusChange{Action: models.ActionStart})
	if err != nil {
		t.Fatalf("U2 start: %v", err)
	}
	if started.Status != models.TaskInProgress || started.StartedAt == nil || started.StartedAt.Before(started.CreatedAt) {
		t.Fatalf("unexpected state after start: %+v", started)
	}

	_, err = f.tasks.ChangeStatus(ctx, task.ID, u1, models.StatusChange{Action: models.ActionComplete})
	wantKind(t, err, errs.ErrNotAuthorized)
	still, _ := f.tasks.GetTask(ctx, task.ID)
	if still.Status != models.TaskInProgress {
		t.Fatalf("status changed by non-assignee: %s", still.Status)
	}

	done, err := f.tasks.ChangeStatus(ctx, task.ID, u2, models.StatusChange{Action: models.ActionComplete})
	if err != nil {
		t.Fatalf("U2 complete: %v", err)
	}
	if done.Status != models.TaskCompleted || done.CompletedAt == nil {
		t.Fatalf("unexpected state after complete: %+v", done)
	}
}
