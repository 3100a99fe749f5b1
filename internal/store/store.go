// Package store adapts a networked, schemaless per-record document store.
// Records are flat JSON documents addressed by collection and id. The store
// offers no multi-record transactions; callers layer idempotent steps and
// reconciliation on top instead of assuming atomicity across records.
package store

import (
	"context"
	"fmt"
	"sort"
	"time"
)

const (
	CollectionProjects      = "projects"
	CollectionApplications  = "applications"
	CollectionNotifications = "notifications"
	CollectionProfiles      = "profiles"
)

// Filter is an attribute-equality predicate. The store supports no other
// predicate kind.
type Filter struct {
	Field string
	Value any
}

type Order struct {
	Field string
	Desc  bool
}

type Store interface {
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Put(ctx context.Context, collection, id string, fields map[string]any) error
	// Update merges fields into an existing record (top-level keys, not a
	// replace) and fails with a not-found error when the record is absent.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, filters []Filter, orderBy *Order) ([]map[string]any, error)
}

// Matches reports whether a document satisfies every equality filter.
// Values are compared by their canonical string form because documents
// round-trip through JSON and come back with float64/string/bool types.
func Matches(doc map[string]any, filters []Filter) bool {
	for _, f := range filters {
		value, ok := doc[f.Field]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", value) != fmt.Sprintf("%v", f.Value) {
			return false
		}
	}
	return true
}

// SortDocs orders documents by a field in place. Timestamp strings are
// compared as times so fractional-second encoding differences do not break
// the order.
func SortDocs(docs []map[string]any, orderBy *Order) {
	if orderBy == nil {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		less := lessValue(docs[i][orderBy.Field], docs[j][orderBy.Field])
		if orderBy.Desc {
			return !less && !equalValue(docs[i][orderBy.Field], docs[j][orderBy.Field])
		}
		return less
	})
}

func lessValue(a, b any) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	at, aerr := time.Parse(time.RFC3339Nano, as)
	bt, berr := time.Parse(time.RFC3339Nano, bs)
	if aerr == nil && berr == nil {
		return at.Before(bt)
	}
	return as < bs
}

func equalValue(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
