package repositories

import (
	"context"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection is the entity store contract shared by the Mongo and in-memory
// backends. Filters are equality documents; updates are Mongo update documents
// limited to $set, $push, $addToSet and $pull on top-level fields.
//
// Every write touches a single document. Nothing cascades.
type Collection[T any] interface {
	Insert(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	// Find returns matches in insertion order.
	Find(ctx context.Context, filter bson.M) ([]*T, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*T, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// Store groups the entity collections the services work against.
type Store struct {
	Users    Collection[models.User]
	Projects Collection[models.Project]
	Tasks    Collection[models.Task]
}

// NewMemoryStore returns a Store backed entirely by process memory.
func NewMemoryStore() *Store {
	return &Store{
		Users:    NewMemoryCollection[models.User]("user", "email"),
		Projects: NewMemoryCollection[models.Project]("project"),
		Tasks:    NewMemoryCollection[models.Task]("task"),
	}
}
