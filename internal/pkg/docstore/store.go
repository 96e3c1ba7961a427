// Package docstore is the document store contract the core relies on: keyed documents with
// conditional create, merge update, atomic increment and field-predicate queries.
package docstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("docstore: document not found")
	ErrDuplicate = errors.New("docstore: document already exists")
)

type Op int

const (
	OpEq Op = iota
	OpGte
	OpLt
)

// Filter is one field predicate. OpEq against an array field matches when any element is equal.
type Filter struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Filter  { return Filter{Field: field, Op: OpEq, Value: value} }
func Gte(field string, value any) Filter { return Filter{Field: field, Op: OpGte, Value: value} }
func Lt(field string, value any) Filter  { return Filter{Field: field, Op: OpLt, Value: value} }

type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	// Limit 0 means unbounded.
	Limit int64
}

// Store documents are structs with a `bson:"_id"` string field; the key argument is authoritative.
type Store interface {
	// Get decodes the document into out or returns ErrNotFound.
	Get(ctx context.Context, collection, key string, out any) error
	// Create inserts only if key is absent, otherwise ErrDuplicate.
	Create(ctx context.Context, collection, key string, doc any) error
	// Set upserts the whole document.
	Set(ctx context.Context, collection, key string, doc any) error
	// Update merges fields into an existing document, ErrNotFound if absent.
	Update(ctx context.Context, collection, key string, fields map[string]any) error
	// Delete is a no-op for a missing key.
	Delete(ctx context.Context, collection, key string) error
	// Increment applies every delta to one document atomically, ErrNotFound if absent.
	Increment(ctx context.Context, collection, key string, deltas map[string]int64) error
	// Query decodes matches into out, a pointer to a slice of structs or struct pointers.
	Query(ctx context.Context, collection string, q Query, out any) error
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)
}
