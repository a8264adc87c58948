package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleWorker
}

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	Role         Role               `json:"role" bson:"role"`
	JobTitle     string             `json:"jobTitle" bson:"jobTitle"`
	IconName     string             `json:"iconName,omitempty" bson:"iconName,omitempty"`
	AvatarURL    string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// NewUser is the registration body of POST /api/users.
type NewUser struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role,omitempty"`
	JobTitle  string `json:"jobTitle"`
	IconName  string `json:"iconName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type UserPatch struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	JobTitle  *string `json:"jobTitle,omitempty"`
	IconName  *string `json:"iconName,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}
