package repositories

import (
	"context"
	"errors"
	"time"

	"taskboard/errs"
	"taskboard/logging"
	"taskboard/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is a Collection over a *mongo.Collection. Every call goes
// through the circuit breaker so a dead database fails fast.
type MongoCollection[T any] struct {
	name    string
	coll    *mongo.Collection
	breaker *gobreaker.CircuitBreaker
}

func NewMongoCollection[T any](name string, coll *mongo.Collection, breaker *gobreaker.CircuitBreaker) *MongoCollection[T] {
	return &MongoCollection[T]{name: name, coll: coll, breaker: breaker}
}

func (c *MongoCollection[T]) Insert(ctx context.Context, doc *T) error {
	_, err := c.exec(func() (interface{}, error) {
		_, err := c.coll.InsertOne(ctx, doc)
		return nil, c.translate("insert", err)
	})
	return err
}

func (c *MongoCollection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	res, err := c.exec(func() (interface{}, error) {
		out := new(T)
		if err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(out); err != nil {
			return nil, c.translate("find", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*T), nil
}

func (c *MongoCollection[T]) Find(ctx context.Context, filter bson.M) ([]*T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	res, err := c.exec(func() (interface{}, error) {
		cursor, err := c.coll.Find(ctx, filter)
		if err != nil {
			return nil, c.translate("find", err)
		}
		defer cursor.Close(ctx)

		out := []*T{}
		if err := cursor.All(ctx, &out); err != nil {
			return nil, c.translate("decode", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]*T), nil
}

func (c *MongoCollection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*T, error) {
	res, err := c.exec(func() (interface{}, error) {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		out := new(T)
		if err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(out); err != nil {
			return nil, c.translate("update", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*T), nil
}

func (c *MongoCollection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := c.exec(func() (interface{}, error) {
		result, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return nil, c.translate("delete", err)
		}
		if result.DeletedCount == 0 {
			return nil, errs.NotFoundf("%s not found", c.name)
		}
		return nil, nil
	})
	return err
}

func (c *MongoCollection[T]) exec(fn func() (interface{}, error)) (interface{}, error) {
	res, err := c.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errs.Store(c.name+" store unavailable", err)
	}
	return res, err
}

func (c *MongoCollection[T]) translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return errs.NotFoundf("%s not found", c.name)
	case mongo.IsDuplicateKeyError(err):
		return errs.DuplicateKeyf("%s violates a unique constraint", c.name)
	default:
		return errs.Store(op+" "+c.name+" failed", err)
	}
}

// NewStoreBreaker trips after repeated store failures. Not-found and
// duplicate-key results are answers from a healthy store and do not count.
func NewStoreBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrDuplicateKey)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

// OpenMongo connects, pings, ensures indexes and returns a Store over the
// users, projects and tasks collections of dbName.
func OpenMongo(ctx context.Context, uri, dbName string) (*Store, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, errs.Store("connect to mongo", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, nil, errs.Store("ping mongo", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB database %s", dbName)

	db := client.Database(dbName)
	if err := createUserEmailIndex(ctx, db.Collection("users")); err != nil {
		client.Disconnect(ctx)
		return nil, nil, err
	}

	breaker := NewStoreBreaker("MongoStoreCB")
	store := &Store{
		Users:    NewMongoCollection[models.User]("user", db.Collection("users"), breaker),
		Projects: NewMongoCollection[models.Project]("project", db.Collection("projects"), breaker),
		Tasks:    NewMongoCollection[models.Task]("task", db.Collection("tasks"), breaker),
	}
	return store, client.Disconnect, nil
}

func createUserEmailIndex(ctx context.Context, collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return errs.Store("create unique index on user email", err)
	}
	logging.Logger.Info("Event ID: DB_INDEX_READY, Description: Unique index on user email is in place")
	return nil
}
