package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewBoard_GroupsByStatusInColumnOrder(t *testing.T) {
	pid := primitive.NewObjectID()
	tasks := []*Task{
		{Title: "a", Status: TaskCompleted},
		{Title: "b", Status: TaskTodo},
		{Title: "c", Status: TaskTodo},
		{Title: "d", Status: TaskBlocked},
		{Title: "e", Status: "archived"},
	}

	board := NewBoard(pid, tasks)
	if board.ProjectID != pid || len(board.Columns) != 5 {
		t.Fatalf("unexpected board: %+v", board)
	}
	want := map[TaskStatus][]string{
		TaskTodo:       {"b", "c"},
		TaskInProgress: {},
		TaskOnHold:     {},
		TaskBlocked:    {"d"},
		TaskCompleted:  {"a"},
	}
	for i, col := range board.Columns {
		if col.Status != TaskStatuses[i] {
			t.Fatalf("column %d: expected %s, got %s", i, TaskStatuses[i], col.Status)
		}
		if col.Tasks == nil {
			t.Fatalf("column %s: tasks must be non-nil", col.Status)
		}
		if len(col.Tasks) != len(want[col.Status]) {
			t.Fatalf("column %s: expected %v, got %d tasks", col.Status, want[col.Status], len(col.Tasks))
		}
		for j, task := range col.Tasks {
			if task.Title != want[col.Status][j] {
				t.Fatalf("column %s: expected %v at %d, got %s", col.Status, want[col.Status], j, task.Title)
			}
		}
	}
	if board.Columns[4].Title != "Done" {
		t.Fatalf("expected completed column titled Done, got %q", board.Columns[4].Title)
	}
}
