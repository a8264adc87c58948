package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

type Project struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	ManagerID   primitive.ObjectID   `json:"managerId" bson:"managerId"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	Status      ProjectStatus        `json:"status" bson:"status"`
	IconName    string               `json:"iconName" bson:"iconName"`
	Comments    []Comment            `json:"comments" bson:"comments"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	Deadline    *time.Time           `json:"deadline" bson:"deadline"`
}

func (p *Project) Normalize() {
	if p.Members == nil {
		p.Members = []primitive.ObjectID{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// NewProject is the body of POST /api/projects.
type NewProject struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	ManagerID   primitive.ObjectID   `json:"managerId"`
	Members     []primitive.ObjectID `json:"members"`
	Status      ProjectStatus        `json:"status,omitempty"`
	IconName    string               `json:"iconName"`
	Deadline    *time.Time           `json:"deadline"`
}

// ProjectPatch is the body of PUT /api/projects/{id}.
type ProjectPatch struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	ManagerID   *primitive.ObjectID   `json:"managerId,omitempty"`
	Members     *[]primitive.ObjectID `json:"members,omitempty"`
	Status      *ProjectStatus        `json:"status,omitempty"`
	IconName    *string               `json:"iconName,omitempty"`
	Deadline    NullTime              `json:"deadline"`
}

type ProjectFilter struct {
	ManagerID *primitive.ObjectID
	Member    *primitive.ObjectID
	Status    ProjectStatus
}
