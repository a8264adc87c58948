package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is owned by exactly one project or task and is never edited.
type Comment struct {
	ID        string             `json:"id" bson:"id"`
	Content   string             `json:"content" bson:"content"`
	AuthorID  primitive.ObjectID `json:"authorId" bson:"authorId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

func NewComment(content string, authorID primitive.ObjectID, now time.Time) Comment {
	return Comment{
		ID:        primitive.NewObjectID().Hex(),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
	}
}

// CommentRequest is the body of POST .../comment.
type CommentRequest struct {
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
}
