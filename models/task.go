package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskOnHold     TaskStatus = "on_hold"
	TaskBlocked    TaskStatus = "blocked"
	TaskCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every status in board column order.
var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskOnHold, TaskBlocked, TaskCompleted}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description" bson:"description"`
	ProjectID   primitive.ObjectID  `json:"projectId" bson:"projectId"`
	AssigneeID  *primitive.ObjectID `json:"assigneeId" bson:"assigneeId"`
	Status      TaskStatus          `json:"status" bson:"status"`
	Priority    Priority            `json:"priority" bson:"priority"`
	Deadline    *time.Time          `json:"deadline" bson:"deadline"`
	IconName    string              `json:"iconName" bson:"iconName"`
	Comments    []Comment           `json:"comments" bson:"comments"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	StartedAt   *time.Time          `json:"startedAt" bson:"startedAt"`
	CompletedAt *time.Time          `json:"completedAt" bson:"completedAt"`
}

// IsAssignee reports whether userID is the task's current assignee.
func (t *Task) IsAssignee(userID primitive.ObjectID) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// Normalize replaces a nil comment list so it encodes as [].
func (t *Task) Normalize() {
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
}

// NewTask is the body of POST /api/tasks.
type NewTask struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ProjectID   primitive.ObjectID  `json:"projectId"`
	AssigneeID  *primitive.ObjectID `json:"assigneeId"`
	Status      TaskStatus          `json:"status,omitempty"`
	Priority    Priority            `json:"priority,omitempty"`
	Deadline    *time.Time          `json:"deadline"`
	IconName    string              `json:"iconName"`
}

// TaskPatch is the body of PUT /api/tasks/{id}. Nil fields are left alone.
// Status is only present so that attempts to bypass the lifecycle can be rejected.
type TaskPatch struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	ProjectID   *primitive.ObjectID `json:"projectId,omitempty"`
	Priority    *Priority           `json:"priority,omitempty"`
	Deadline    NullTime            `json:"deadline"`
	IconName    *string             `json:"iconName,omitempty"`
	Status      *TaskStatus         `json:"status,omitempty"`
}

// TaskFilter narrows ListTasks. Zero fields match everything.
type TaskFilter struct {
	ProjectID  *primitive.ObjectID
	AssigneeID *primitive.ObjectID
	Status     TaskStatus
}
