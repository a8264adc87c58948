package repositories

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"taskboard/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection keeps BSON snapshots of documents in insertion order and
// applies the same filter and update operators as the Mongo backend.
type MemoryCollection[T any] struct {
	name   string
	unique []string

	mu    sync.RWMutex
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]bson.Raw
}

// NewMemoryCollection creates an empty collection. unique names top-level
// fields that must not repeat across documents.
func NewMemoryCollection[T any](name string, unique ...string) *MemoryCollection[T] {
	return &MemoryCollection[T]{
		name:   name,
		unique: unique,
		docs:   make(map[primitive.ObjectID]bson.Raw),
	}
}

func (c *MemoryCollection[T]) Insert(ctx context.Context, doc *T) error {
	if err := ctx.Err(); err != nil {
		return errs.Store("insert "+c.name, err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return errs.Store("encode "+c.name, err)
	}
	id, ok := bson.Raw(raw).Lookup("_id").ObjectIDOK()
	if !ok || id.IsZero() {
		return errs.Store("insert "+c.name, fmt.Errorf("document has no _id"))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return errs.DuplicateKeyf("%s %s already exists", c.name, id.Hex())
	}
	if err := c.checkUnique(id, raw); err != nil {
		return err
	}
	c.docs[id] = raw
	c.order = append(c.order, id)
	return nil
}

func (c *MemoryCollection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Store("find "+c.name, err)
	}
	c.mu.RLock()
	raw, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return nil, errs.NotFoundf("%s not found", c.name)
	}
	return c.decode(raw)
}

func (c *MemoryCollection[T]) Find(ctx context.Context, filter bson.M) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Store("find "+c.name, err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []*T{}
	for _, id := range c.order {
		raw := c.docs[id]
		ok, err := matches(raw, filter)
		if err != nil {
			return nil, errs.Store("filter "+c.name, err)
		}
		if !ok {
			continue
		}
		doc, err := c.decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *MemoryCollection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Store("update "+c.name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.docs[id]
	if !ok {
		return nil, errs.NotFoundf("%s not found", c.name)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, errs.Store("decode "+c.name, err)
	}
	if err := applyUpdate(doc, update); err != nil {
		return nil, errs.Store("update "+c.name, err)
	}
	next, err := bson.Marshal(doc)
	if err != nil {
		return nil, errs.Store("encode "+c.name, err)
	}
	if err := c.checkUnique(id, next); err != nil {
		return nil, err
	}
	// Decode before committing so a document that no longer fits T is rejected.
	out, err := c.decode(next)
	if err != nil {
		return nil, err
	}
	c.docs[id] = next
	return out, nil
}

func (c *MemoryCollection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return errs.Store("delete "+c.name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return errs.NotFoundf("%s not found", c.name)
	}
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *MemoryCollection[T]) decode(raw bson.Raw) (*T, error) {
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		return nil, errs.Store("decode "+c.name, err)
	}
	return out, nil
}

// checkUnique must be called with c.mu held.
func (c *MemoryCollection[T]) checkUnique(id primitive.ObjectID, raw bson.Raw) error {
	for _, field := range c.unique {
		val, err := raw.LookupErr(field)
		if err != nil {
			continue
		}
		for otherID, other := range c.docs {
			if otherID == id {
				continue
			}
			if ov, err := other.LookupErr(field); err == nil && rawEqual(ov, val) {
				return errs.DuplicateKeyf("%s with this %s already exists", c.name, field)
			}
		}
	}
	return nil
}

// matches implements equality filters, including Mongo's rule that a scalar
// matches an array field containing it. A nil filter value matches null or
// a missing field.
func matches(raw bson.Raw, filter bson.M) (bool, error) {
	for field, want := range filter {
		wantVal, err := toRaw(want)
		if err != nil {
			return false, err
		}
		got, err := raw.LookupErr(field)
		if err != nil {
			if wantVal.Type == bson.TypeNull {
				continue
			}
			return false, nil
		}
		if rawEqual(got, wantVal) {
			continue
		}
		if arr, ok := got.ArrayOK(); ok && wantVal.Type != bson.TypeArray {
			vals, err := arr.Values()
			if err != nil {
				return false, err
			}
			found := false
			for _, v := range vals {
				if rawEqual(v, wantVal) {
					found = true
					break
				}
			}
			if found {
				continue
			}
		}
		return false, nil
	}
	return true, nil
}

func applyUpdate(doc bson.M, update bson.M) error {
	for op, arg := range update {
		fields, ok := asM(arg)
		if !ok {
			return fmt.Errorf("%s expects a document", op)
		}
		for field, value := range fields {
			if field == "_id" {
				return fmt.Errorf("_id is immutable")
			}
			switch op {
			case "$set":
				doc[field] = value
			case "$push":
				doc[field] = append(asArray(doc[field]), value)
			case "$addToSet":
				arr := asArray(doc[field])
				has, err := containsValue(arr, value)
				if err != nil {
					return err
				}
				if !has {
					arr = append(arr, value)
				}
				doc[field] = arr
			case "$pull":
				kept := primitive.A{}
				for _, el := range asArray(doc[field]) {
					eq, err := valuesEqual(el, value)
					if err != nil {
						return err
					}
					if !eq {
						kept = append(kept, el)
					}
				}
				doc[field] = kept
			default:
				return fmt.Errorf("unsupported update operator %q", op)
			}
		}
	}
	return nil
}

func asM(v any) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]any:
		return bson.M(m), true
	}
	return nil, false
}

func asArray(v any) primitive.A {
	switch a := v.(type) {
	case primitive.A:
		return a
	case []any:
		return primitive.A(a)
	}
	return primitive.A{}
}

func containsValue(arr primitive.A, v any) (bool, error) {
	for _, el := range arr {
		eq, err := valuesEqual(el, v)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

func valuesEqual(a, b any) (bool, error) {
	ra, err := toRaw(a)
	if err != nil {
		return false, err
	}
	rb, err := toRaw(b)
	if err != nil {
		return false, err
	}
	return rawEqual(ra, rb), nil
}

func toRaw(v any) (bson.RawValue, error) {
	if v == nil {
		return bson.RawValue{Type: bson.TypeNull}, nil
	}
	t, data, err := bson.MarshalValue(v)
	if err != nil {
		return bson.RawValue{}, err
	}
	return bson.RawValue{Type: t, Value: data}, nil
}

func rawEqual(a, b bson.RawValue) bool {
	return a.Type == b.Type && bytes.Equal(a.Value, b.Value)
}
