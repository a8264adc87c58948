package services

import (
	"context"
	"strings"

	"taskboard/errs"
	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService is the task lifecycle controller: creation, field updates,
// assignment, comments and the assignee-only status state machine.
type TaskService struct {
	tasks repositories.Collection[models.Task]
	now   Clock
}

func NewTaskService(tasks repositories.Collection[models.Task], clock Clock) *TaskService {
	if clock == nil {
		clock = SystemClock
	}
	return &TaskService{tasks: tasks, now: clock}
}

func (s *TaskService) CreateTask(ctx context.Context, in models.NewTask) (*models.Task, error) {
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	if err := required("description", in.Description); err != nil {
		return nil, err
	}
	if in.ProjectID.IsZero() {
		return nil, errs.Validationf("projectId is required")
	}
	if err := required("iconName", in.IconName); err != nil {
		return nil, err
	}
	icon, err := validIcon(models.IconTask, in.IconName)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = models.TaskTodo
	}
	if !status.Valid() {
		return nil, errs.Validationf("unknown status %q", status)
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, errs.Validationf("unknown priority %q", priority)
	}

	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ProjectID:   in.ProjectID,
		AssigneeID:  in.AssigneeID,
		Status:      status,
		Priority:    priority,
		Deadline:    in.Deadline,
		IconName:    icon,
		Comments:    []models.Comment{},
		CreatedAt:   s.now(),
	}
	// Every status past todo is only reachable through in_progress.
	if status != models.TaskTodo {
		started := task.CreatedAt
		task.StartedAt = &started
	}
	if status == models.TaskCompleted {
		completed := task.CreatedAt
		task.CompletedAt = &completed
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", task.ID.Hex(), task.ProjectID.Hex())
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Normalize()
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	q := bson.M{}
	if filter.ProjectID != nil {
		q["projectId"] = *filter.ProjectID
	}
	if filter.AssigneeID != nil {
		q["assigneeId"] = *filter.AssigneeID
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, errs.Validationf("unknown task status %q", filter.Status)
		}
		q["status"] = filter.Status
	}
	tasks, err := s.tasks.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.Normalize()
	}
	return tasks, nil
}

// UpdateTask merges the non-nil patch fields. Status is owned by ChangeStatus
// and is rejected here.
func (s *TaskService) UpdateTask(ctx context.Context, id primitive.ObjectID, patch models.TaskPatch) (*models.Task, error) {
	if patch.Status != nil {
		return nil, errs.Validationf("status cannot be set directly; use the status endpoint")
	}
	set := bson.M{}
	if patch.Title != nil {
		if err := required("title", *patch.Title); err != nil {
			return nil, err
		}
		set["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if err := required("description", *patch.Description); err != nil {
			return nil, err
		}
		set["description"] = *patch.Description
	}
	if patch.ProjectID != nil {
		if patch.ProjectID.IsZero() {
			return nil, errs.Validationf("projectId is required")
		}
		set["projectId"] = *patch.ProjectID
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, errs.Validationf("unknown priority %q", *patch.Priority)
		}
		set["priority"] = *patch.Priority
	}
	if patch.IconName != nil {
		icon, err := validIcon(models.IconTask, *patch.IconName)
		if err != nil {
			return nil, err
		}
		set["iconName"] = icon
	}
	if patch.Deadline.Set {
		set["deadline"] = patch.Deadline.Time
	}
	if len(set) == 0 {
		return s.GetTask(ctx, id)
	}

	task, err := s.tasks.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	task.Normalize()
	return task, nil
}

// AssignTask sets or, with a nil userID, clears the assignee. Reassignment
// is not restricted to any actor.
func (s *TaskService) AssignTask(ctx context.Context, id primitive.ObjectID, userID *primitive.ObjectID) (*models.Task, error) {
	task, err := s.tasks.UpdateByID(ctx, id, bson.M{"$set": bson.M{"assigneeId": userID}})
	if err != nil {
		return nil, err
	}
	task.Normalize()
	who := "nobody"
	if userID != nil {
		who = userID.Hex()
	}
	logging.Logger.Infof("Event ID: TASK_ASSIGNED, Description: Task %s assigned to %s", id.Hex(), who)
	return task, nil
}

// ChangeStatus applies a lifecycle action on behalf of actorID. Only the
// assignee may act; the task is left unchanged on any failure.
func (s *TaskService) ChangeStatus(ctx context.Context, id, actorID primitive.ObjectID, req models.StatusChange) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsAssignee(actorID) {
		logging.Logger.Warnf("Event ID: TASK_STATUS_DENIED, Description: User %s is not the assignee of task %s", actorID.Hex(), id.Hex())
		return nil, errs.NotAuthorizedf("only the task's assignee can change its status")
	}

	action := req.Action
	switch {
	case action != "":
		if !action.Valid() {
			return nil, errs.Validationf("unknown action %q", action)
		}
	case req.Status != "":
		if !req.Status.Valid() {
			return nil, errs.Validationf("unknown task status %q", req.Status)
		}
		if action, err = models.ActionFor(task.Status, req.Status); err != nil {
			return nil, err
		}
	default:
		return nil, errs.Validationf("action or status is required")
	}

	from := task.Status
	changed, err := task.Apply(action, s.now())
	if err != nil {
		return nil, err
	}
	updated, err := s.tasks.UpdateByID(ctx, id, bson.M{"$set": bson.M(changed)})
	if err != nil {
		return nil, err
	}
	updated.Normalize()
	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved from %s to %s by %s (%s)", id.Hex(), from, updated.Status, actorID.Hex(), action)
	return updated, nil
}

func (s *TaskService) AddComment(ctx context.Context, id primitive.ObjectID, req models.CommentRequest) (*models.Task, error) {
	comment, err := buildComment(req, s.now())
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.UpdateByID(ctx, id, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return nil, err
	}
	task.Normalize()
	return task, nil
}

// DeleteTask removes only the task document.
func (s *TaskService) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	if err := s.tasks.DeleteByID(ctx, id); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", id.Hex())
	return nil
}
