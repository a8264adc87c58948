package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// BoardColumn is one Kanban column; every task status has exactly one.
type BoardColumn struct {
	Status TaskStatus `json:"status"`
	Title  string     `json:"title"`
	Tasks  []*Task    `json:"tasks"`
}

type Board struct {
	ProjectID primitive.ObjectID `json:"projectId"`
	Columns   []BoardColumn      `json:"columns"`
}

var columnTitles = map[TaskStatus]string{
	TaskTodo:       "To Do",
	TaskInProgress: "In Progress",
	TaskOnHold:     "On Hold",
	TaskBlocked:    "Blocked",
	TaskCompleted:  "Done",
}

// NewBoard groups tasks into columns, keeping their relative order.
// Tasks with an unrecognised status are dropped.
func NewBoard(projectID primitive.ObjectID, tasks []*Task) Board {
	board := Board{ProjectID: projectID, Columns: make([]BoardColumn, len(TaskStatuses))}
	index := make(map[TaskStatus]int, len(TaskStatuses))
	for i, s := range TaskStatuses {
		board.Columns[i] = BoardColumn{Status: s, Title: columnTitles[s], Tasks: []*Task{}}
		index[s] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			board.Columns[i].Tasks = append(board.Columns[i].Tasks, t)
		}
	}
	return board
}
