package models

import (
	"time"

	"taskboard/errs"

	"golang.org/x/exp/slices"
)

// TaskAction names a status transition requested by a task's assignee.
type TaskAction string

const (
	ActionStart    TaskAction = "start"
	ActionResume   TaskAction = "resume"
	ActionComplete TaskAction = "complete"
	ActionHold     TaskAction = "hold"
	ActionBlock    TaskAction = "block"
	ActionReopen   TaskAction = "reopen"
)

// Valid reports whether a is one of the known action names.
func (a TaskAction) Valid() bool {
	switch a {
	case ActionStart, ActionResume, ActionComplete, ActionHold, ActionBlock, ActionReopen:
		return true
	}
	return false
}

// StatusChange is the body of PATCH /api/tasks/{id}/status. Either the action
// or the target status is given.
type StatusChange struct {
	Action TaskAction `json:"action,omitempty"`
	Status TaskStatus `json:"status,omitempty"`
}

type transition struct {
	action TaskAction
	to     TaskStatus
}

// taskTransitions is the complete task state machine, keyed by current status.
// Order within a status is the order actions are offered to clients.
var taskTransitions = map[TaskStatus][]transition{
	TaskTodo: {
		{ActionStart, TaskInProgress},
	},
	TaskInProgress: {
		{ActionComplete, TaskCompleted},
		{ActionHold, TaskOnHold},
		{ActionBlock, TaskBlocked},
	},
	TaskOnHold: {
		{ActionResume, TaskInProgress},
		{ActionStart, TaskInProgress},
		{ActionBlock, TaskBlocked},
	},
	TaskBlocked: {
		{ActionReopen, TaskTodo},
	},
	TaskCompleted: {
		{ActionReopen, TaskTodo},
	},
}

// NextStatus returns the status reached by applying action in status from.
func NextStatus(from TaskStatus, action TaskAction) (TaskStatus, error) {
	for _, tr := range taskTransitions[from] {
		if tr.action == action {
			return tr.to, nil
		}
	}
	return "", errs.InvalidTransitionf("cannot %s a task that is %s", action, from)
}

// ActionFor resolves a requested target status into the action that reaches it.
// The first listed action wins, so on_hold -> in_progress resolves to resume.
func ActionFor(from, to TaskStatus) (TaskAction, error) {
	for _, tr := range taskTransitions[from] {
		if tr.to == to {
			return tr.action, nil
		}
	}
	return "", errs.InvalidTransitionf("cannot move a task from %s to %s", from, to)
}

// AvailableActions lists the actions permitted from status. Aliases are hidden.
func AvailableActions(status TaskStatus) []TaskAction {
	out := []TaskAction{}
	seen := make([]TaskStatus, 0, 3)
	for _, tr := range taskTransitions[status] {
		if slices.Contains(seen, tr.to) {
			continue
		}
		seen = append(seen, tr.to)
		out = append(out, tr.action)
	}
	return out
}

// Apply moves the task through action at time now and returns the fields that
// changed, keyed by their stored names. The task is untouched on error.
func (t *Task) Apply(action TaskAction, now time.Time) (map[string]any, error) {
	to, err := NextStatus(t.Status, action)
	if err != nil {
		return nil, err
	}
	changed := map[string]any{"status": to}
	switch to {
	case TaskInProgress:
		if t.StartedAt == nil {
			started := now
			t.StartedAt = &started
			changed["startedAt"] = started
		}
	case TaskCompleted:
		completed := now
		t.CompletedAt = &completed
		changed["completedAt"] = completed
	case TaskTodo:
		t.CompletedAt = nil
		changed["completedAt"] = nil
	}
	t.Status = to
	return changed, nil
}
